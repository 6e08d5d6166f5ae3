package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pawfield/PF-BookingService/internal/api/handlers"
	resolveAvailability "github.com/pawfield/PF-BookingService/internal/usecase/resolve_availability"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidClientID  = "некорректный ID клиента"
	msgMissingStartDate = "начальная дата обязательна"
	msgMissingEndDate   = "конечная дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDateRange = "некорректный диапазон дат"
	msgServiceNotFound  = "услуга не найдена"
	msgClientNotFound   = "клиент не найден"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/available-slots
// Query params: startDate (required), endDate (required), clientId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем serviceId из URL
	serviceIDStr := vars["serviceId"]
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Извлекаем диапазон дат из query параметров
	startDateStr := r.URL.Query().Get("startDate")
	if startDateStr == "" {
		h.logger.Warn("GET /services/{id}/available-slots - Missing start date")
		handlers.RespondBadRequest(w, msgMissingStartDate)
		return
	}

	endDateStr := r.URL.Query().Get("endDate")
	if endDateStr == "" {
		h.logger.Warn("GET /services/{id}/available-slots - Missing end date")
		handlers.RespondBadRequest(w, msgMissingEndDate)
		return
	}

	// clientId опционален: с ним расчёт идёт относительно предпочитаемого
	// сотрудника клиента
	var clientID *int64
	if clientIDStr := r.URL.Query().Get("clientId"); clientIDStr != "" {
		id, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /services/{id}/available-slots - Invalid client ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidClientID)
			return
		}
		clientID = &id
	}

	// Формируем запрос к use case (с парсингом дат)
	useCaseReq, err := ToUseCaseRequest(serviceID, startDateStr, endDateStr, clientID)
	if err != nil {
		h.logger.Warn("GET /services/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, resolveAvailability.ErrClientNotFound):
			h.logger.Warn("GET /services/{id}/available-slots - Client not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, resolveAvailability.ErrInvalidDateRange):
			h.logger.Warn("GET /services/{id}/available-slots - Invalid date range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, resolveAvailability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /services/{id}/available-slots - Failed to resolve availability: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /services/{id}/available-slots - Slots resolved successfully: service_id=%d, slots_count=%d",
		serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
