package create_booking

import (
	"errors"
	"net/http"

	"github.com/pawfield/PF-BookingService/internal/api/handlers"
	createBooking "github.com/pawfield/PF-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateOrTime     = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgServiceNotFound       = "услуга не найдена"
	msgClientNotFound        = "клиент не найден"
	msgPetNotOwned           = "питомец не принадлежит клиенту"
	msgSlotNotBookable       = "запрошенный слот недоступен для бронирования"
	msgFieldRequired         = "для этой услуги требуется выбрать площадку"
	msgInsufficientCapacity  = "недостаточно мест в выбранном слоте"
	msgNoStaffAvailable      = "нет доступных сотрудников на выбранное время"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времён)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		respondUseCaseError(w, h.logger, &req, err)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: id=%d, client_id=%d, service_id=%d",
		result.ID, req.ClientID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// respondUseCaseError мапит ошибки use case на HTTP статусы
func respondUseCaseError(w http.ResponseWriter, logger Logger, req *CreateBookingRequest, err error) {
	switch {
	case errors.Is(err, createBooking.ErrInsufficientCapacity):
		logger.Warn("POST /bookings - Insufficient capacity: client_id=%d, service_id=%d", req.ClientID, req.ServiceID)
		handlers.RespondError(w, http.StatusConflict, msgInsufficientCapacity)

	case errors.Is(err, createBooking.ErrNoStaffAvailable):
		logger.Warn("POST /bookings - No staff available: client_id=%d, service_id=%d", req.ClientID, req.ServiceID)
		handlers.RespondError(w, http.StatusConflict, msgNoStaffAvailable)

	case errors.Is(err, createBooking.ErrSlotNotBookable):
		logger.Warn("POST /bookings - Slot not bookable: client_id=%d, service_id=%d", req.ClientID, req.ServiceID)
		handlers.RespondError(w, http.StatusConflict, msgSlotNotBookable)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrClientNotFound):
		logger.Warn("POST /bookings - Client not found: client_id=%d", req.ClientID)
		handlers.RespondNotFound(w, msgClientNotFound)

	case errors.Is(err, createBooking.ErrPetNotOwned):
		logger.Warn("POST /bookings - Pet not owned: client_id=%d, error=%v", req.ClientID, err)
		handlers.RespondForbidden(w, msgPetNotOwned)

	case errors.Is(err, createBooking.ErrFieldSelectionRequired):
		logger.Warn("POST /bookings - Field selection required: service_id=%d", req.ServiceID)
		handlers.RespondBadRequest(w, msgFieldRequired)

	case errors.Is(err, createBooking.ErrInvalidInput):
		logger.Warn("POST /bookings - Invalid input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		logger.Error("POST /bookings - Failed to create booking: client_id=%d, service_id=%d, error=%v",
			req.ClientID, req.ServiceID, err)
		handlers.RespondInternalError(w)
	}
}
