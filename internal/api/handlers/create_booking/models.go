package create_booking

import (
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
	createBooking "github.com/pawfield/PF-BookingService/internal/usecase/create_booking"
	"github.com/pawfield/PF-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`      // "2026-08-28"
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`   // "11:00"
	FieldIDs        []int64 `json:"fieldIds,omitempty"`
	PetIDs          []int64 `json:"petIds"`
	AssignedStaffID *int64  `json:"assignedStaffId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Парсит дату и времена слота
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
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

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		ClientID:        resp.ClientID,
		ServiceID:       resp.ServiceID,
		FieldIDs:        resp.FieldIDs,
		StartAt:         resp.StartAt,
		EndAt:           resp.EndAt,
		AssignedStaffID: resp.AssignedStaffID,
		PetIDs:          resp.PetIDs,
		Status:          resp.Status,
		PricePerPet:     resp.PricePerPet,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}
