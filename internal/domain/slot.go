package domain

import "time"

// AvailableSlot represents a bookable time window resolved for a service
// Derived on demand, never persisted.
type AvailableSlot struct {
	ServiceID                      int64
	StartAt                        time.Time
	EndAt                          time.Time
	RemainingCapacity              *int // nil = unlimited
	PricePerPet                    float64
	CapacityMode                   CapacityMode
	ZeroCapacityReason             ZeroCapacityReason
	OtherStaffPotentiallyAvailable bool
	FieldIDs                       []int64 // contributing fields
}

// IsBookable returns true if the slot still has capacity (or is unlimited)
func (s *AvailableSlot) IsBookable() bool {
	return s.RemainingCapacity == nil || *s.RemainingCapacity > 0
}

// IsUnlimited returns true if no resource bounds the slot's capacity
func (s *AvailableSlot) IsUnlimited() bool {
	return s.RemainingCapacity == nil
}
