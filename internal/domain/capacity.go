package domain

// CapacityMode determines which resource bounds a slot's capacity
type CapacityMode string

const (
	// CapacityModeField capacity is bounded by the capacity of the rule's fields
	CapacityModeField CapacityMode = "field_based"

	// CapacityModeStaffVehicle capacity is bounded by on-duty staff's vehicle capacity
	CapacityModeStaffVehicle CapacityMode = "staff_vehicle_based"
)

// IsValid returns true for a known capacity mode
func (m CapacityMode) IsValid() bool {
	return m == CapacityModeField || m == CapacityModeStaffVehicle
}

// ZeroCapacityReason explains why a slot resolved to zero capacity
type ZeroCapacityReason string

const (
	// ReasonNone the slot has capacity (or is unlimited)
	ReasonNone ZeroCapacityReason = "none"

	// ReasonNoStaff no staff member is on duty for the slot at all
	ReasonNoStaff ZeroCapacityReason = "no_staff"

	// ReasonStaffFull staff are on duty but the constraining staff capacity is exhausted
	ReasonStaffFull ZeroCapacityReason = "staff_full"

	// ReasonBaseFull the field capacity is exhausted
	ReasonBaseFull ZeroCapacityReason = "base_full"
)
