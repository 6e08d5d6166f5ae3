package resolve_availability

import "time"

// Request параметры запроса доступных слотов
type Request struct {
	ServiceID int64
	StartDate time.Time // первая дата диапазона (включительно)
	EndDate   time.Time // последняя дата диапазона (включительно)
	ClientID  *int64    // если задан - расчёт относительно предпочитаемого сотрудника клиента
}

// Slot доступный слот в ответе
type Slot struct {
	StartAt                        time.Time `json:"start_at"`
	EndAt                          time.Time `json:"end_at"`
	RemainingCapacity              *int      `json:"remaining_capacity"` // null = безлимит
	PricePerPet                    float64   `json:"price_per_pet"`
	CapacityMode                   string    `json:"capacity_mode"`
	ZeroCapacityReason             string    `json:"zero_capacity_reason,omitempty"`
	OtherStaffPotentiallyAvailable bool      `json:"other_staff_potentially_available"`
	FieldIDs                       []int64   `json:"field_ids,omitempty"`
}

// Response ответ со списком доступных слотов
type Response struct {
	ServiceID int64  `json:"service_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Slots     []Slot `json:"slots"`
}
