package batch_create_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
	createBooking "github.com/pawfield/PF-BookingService/internal/usecase/create_booking"
	"github.com/pawfield/PF-BookingService/pkg/types"
)

// BatchCreateRequest HTTP request model: пачка запросов на бронирование
type BatchCreateRequest struct {
	Bookings []BookingRequest `json:"bookings"`
}

// BookingRequest один запрос из пачки
type BookingRequest struct {
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	FieldIDs        []int64 `json:"fieldIds,omitempty"`
	PetIDs          []int64 `json:"petIds"`
	AssignedStaffID *int64  `json:"assignedStaffId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// BatchCreateResponse HTTP response model: результаты позиция к позиции
type BatchCreateResponse struct {
	Results []BookingOutcome `json:"results"`
}

// BookingOutcome результат одного запроса из пачки
type BookingOutcome struct {
	Success bool             `json:"success"`
	Booking *BookingResponse `json:"booking,omitempty"`
	Error   *OutcomeError    `json:"error,omitempty"`
}

// OutcomeError ошибка одного запроса из пачки
type OutcomeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BookingResponse созданное бронирование
type BookingResponse struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	ClientID        int64     `json:"clientId"`
	ServiceID       int64     `json:"serviceId"`
	FieldIDs        []int64   `json:"fieldIds,omitempty"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	AssignedStaffID *int64    `json:"assignedStaffId,omitempty"`
	PetIDs          []int64   `json:"petIds"`
	Status          string    `json:"status"`
	PricePerPet     float64   `json:"pricePerPet"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует один запрос пачки в модель use case
func (r *BookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:        r.ClientID,
		ServiceID:       r.ServiceID,
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
		FieldIDs:        r.FieldIDs,
		PetIDs:          r.PetIDs,
		AssignedStaffID: r.AssignedStaffID,
		Notes:           r.Notes,
	}, nil
}

// FromBatchResult конвертирует результат use case в outcome
func FromBatchResult(result createBooking.BatchResult) BookingOutcome {
	if result.Err != nil {
		status, message := outcomeStatus(result.Err)
		return BookingOutcome{
			Success: false,
			Error: &OutcomeError{
				Code:    status,
				Message: message,
			},
		}
	}

	b := result.Booking
	return BookingOutcome{
		Success: true,
		Booking: &BookingResponse{
			ID:              b.ID,
			Reference:       b.Reference,
			ClientID:        b.ClientID,
			ServiceID:       b.ServiceID,
			FieldIDs:        b.FieldIDs,
			StartAt:         b.StartAt,
			EndAt:           b.EndAt,
			AssignedStaffID: b.AssignedStaffID,
			PetIDs:          b.PetIDs,
			Status:          b.Status,
			PricePerPet:     b.PricePerPet,
			Notes:           b.Notes,
			CreatedAt:       b.CreatedAt,
			UpdatedAt:       b.UpdatedAt,
		},
	}
}

// outcomeStatus мапит ошибку use case на статус и сообщение для позиции пачки
func outcomeStatus(err error) (int, string) {
	switch {
	case errors.Is(err, createBooking.ErrInsufficientCapacity):
		return http.StatusConflict, msgInsufficientCapacity
	case errors.Is(err, createBooking.ErrNoStaffAvailable):
		return http.StatusConflict, msgNoStaffAvailable
	case errors.Is(err, createBooking.ErrSlotNotBookable):
		return http.StatusConflict, msgSlotNotBookable
	case errors.Is(err, createBooking.ErrServiceNotFound):
		return http.StatusNotFound, msgServiceNotFound
	case errors.Is(err, createBooking.ErrClientNotFound):
		return http.StatusNotFound, msgClientNotFound
	case errors.Is(err, createBooking.ErrPetNotOwned):
		return http.StatusForbidden, msgPetNotOwned
	case errors.Is(err, createBooking.ErrFieldSelectionRequired):
		return http.StatusBadRequest, msgFieldRequired
	case errors.Is(err, createBooking.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidBooking
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}
