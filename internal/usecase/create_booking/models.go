package create_booking

import (
	"time"

	"github.com/pawfield/PF-BookingService/pkg/types"
)

// Request параметры запроса создания бронирования
type Request struct {
	ClientID        int64
	ServiceID       int64
	Date            time.Time // дата слота (в зоне услуги)
	StartTime       types.TimeString
	EndTime         types.TimeString
	FieldIDs        []int64 // обязательны при requires_field_selection
	PetIDs          []int64
	AssignedStaffID *int64  // явный выбор сотрудника; иначе предпочитаемый сотрудник клиента
	Notes           *string
}

// Response созданное бронирование
type Response struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	ClientID        int64     `json:"client_id"`
	ServiceID       int64     `json:"service_id"`
	FieldIDs        []int64   `json:"field_ids,omitempty"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	AssignedStaffID *int64    `json:"assigned_staff_id,omitempty"`
	PetIDs          []int64   `json:"pet_ids"`
	Status          string    `json:"status"`
	PricePerPet     float64   `json:"price_per_pet"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BatchResult результат одного запроса из пачки
// Пачка не атомарна: каждый запрос фиксируется в собственной транзакции,
// ошибка одного не откатывает остальные.
type BatchResult struct {
	Booking *Response
	Err     error
}
