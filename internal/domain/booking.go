package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusCommitted бронирование зафиксировано и потребляет вместимость
	StatusCommitted BookingStatus = "committed"

	// StatusCancelled бронирование отменено (внешним процессом) и вместимость не потребляет
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a committed reservation in the ledger
// The ledger is the only durable record of consumed capacity.
type Booking struct {
	ID              int64
	Reference       string // external correlation id
	ClientID        int64
	ServiceID       int64
	FieldIDs        []int64
	StartAt         time.Time // absolute timestamp in the service's zone
	EndAt           time.Time
	AssignedStaffID *int64 // nil in field-based mode or staff-sum mode
	PetIDs          []int64
	Status          BookingStatus
	PricePerPet     float64
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking consumes capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusCommitted
}

// PetCount returns the number of pets on the booking
func (b *Booking) PetCount() int {
	return len(b.PetIDs)
}

// MatchesWindow returns true if the booking occupies exactly the given window
func (b *Booking) MatchesWindow(start, end time.Time) bool {
	return b.StartAt.Equal(start) && b.EndAt.Equal(end)
}

// Overlaps returns true if the booking's window truly overlaps [start, end)
// Windows that merely touch at a boundary do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// IntersectsFields returns true if the booking shares at least one field with ids
func (b *Booking) IntersectsFields(ids []int64) bool {
	return IntersectFields(b.FieldIDs, ids)
}

// LedgerFilter фильтр для выборки бронирований из журнала
type LedgerFilter struct {
	From     time.Time // начало окна (включительно)
	To       time.Time // конец окна (исключительно)
	FieldIDs []int64   // если не пуст - только бронирования, пересекающиеся по площадкам
	StaffID  *int64    // если задан - только бронирования этого сотрудника
}
