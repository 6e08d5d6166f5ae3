package batch_create_bookings

import (
	"net/http"

	"github.com/pawfield/PF-BookingService/internal/api/handlers"
	createBooking "github.com/pawfield/PF-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgEmptyBatch           = "пачка запросов пуста"
	msgBatchTooLarge        = "слишком много запросов в пачке"
	msgInvalidBooking       = "некорректный запрос на бронирование"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgServiceNotFound      = "услуга не найдена"
	msgClientNotFound       = "клиент не найден"
	msgPetNotOwned          = "питомец не принадлежит клиенту"
	msgSlotNotBookable      = "запрошенный слот недоступен для бронирования"
	msgFieldRequired        = "для этой услуги требуется выбрать площадку"
	msgInsufficientCapacity = "недостаточно мест в выбранном слоте"
	msgNoStaffAvailable     = "нет доступных сотрудников на выбранное время"
	msgInternalError        = "внутренняя ошибка сервера"
)

// maxBatchSize ограничение размера пачки
const maxBatchSize = 20

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

// Handle POST /api/v1/bookings/batch
//
// Пачка не атомарна: каждый запрос фиксируется независимо, результаты
// возвращаются позиция к позиции. HTTP статус 200 даже при частичных
// отказах - исход каждой позиции описан в её outcome.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BatchCreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/batch - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if len(req.Bookings) == 0 {
		h.logger.Warn("POST /bookings/batch - Empty batch")
		handlers.RespondBadRequest(w, msgEmptyBatch)
		return
	}

	if len(req.Bookings) > maxBatchSize {
		h.logger.Warn("POST /bookings/batch - Batch too large: %d requests", len(req.Bookings))
		handlers.RespondBadRequest(w, msgBatchTooLarge)
		return
	}

	// Парсим все запросы заранее; непарсящиеся позиции получают outcome
	// с ошибкой, не блокируя остальные
	useCaseReqs := make([]*createBooking.Request, len(req.Bookings))
	parseErrors := make(map[int]string)

	for i := range req.Bookings {
		useCaseReq, err := req.Bookings[i].ToUseCaseRequest()
		if err != nil {
			h.logger.Warn("POST /bookings/batch - Failed to parse request %d: %v", i, err)
			parseErrors[i] = msgInvalidDateOrTime
			continue
		}
		useCaseReqs[i] = useCaseReq
	}

	results, err := h.useCase.ExecuteBatch(r.Context(), useCaseReqs)
	if err != nil {
		h.logger.Error("POST /bookings/batch - Batch execution failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := BatchCreateResponse{
		Results: make([]BookingOutcome, len(results)),
	}
	succeeded := 0
	for i, result := range results {
		if message, ok := parseErrors[i]; ok {
			response.Results[i] = BookingOutcome{
				Success: false,
				Error: &OutcomeError{
					Code:    http.StatusBadRequest,
					Message: message,
				},
			}
			continue
		}
		response.Results[i] = FromBatchResult(result)
		if response.Results[i].Success {
			succeeded++
		}
	}

	h.logger.Info("POST /bookings/batch - Batch processed: %d/%d succeeded", succeeded, len(results))
	handlers.RespondJSON(w, http.StatusOK, response)
}
