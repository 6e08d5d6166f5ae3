package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfield/PF-BookingService/internal/domain"
	"github.com/pawfield/PF-BookingService/pkg/ptr"
)

// monday is a fixed reference date (2025-06-02 is a Monday).
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func testService(mutators ...func(*domain.Service)) *domain.Service {
	svc := &domain.Service{
		ID:           1,
		Name:         "Group Walk",
		ServiceType:  "walk",
		DefaultPrice: ptr.Ptr(25.0),
		Timezone:     "UTC",
		IsActive:     true,
	}
	for _, mutate := range mutators {
		mutate(svc)
	}
	return svc
}

func fieldRule(fieldIDs []int64, capacityMode domain.CapacityMode) *domain.ServiceAvailabilityRule {
	return &domain.ServiceAvailabilityRule{
		ID:           100,
		ServiceID:    1,
		FieldIDs:     fieldIDs,
		StartTime:    "09:00",
		EndTime:      "10:00",
		DaysOfWeek:   []int{1}, // Monday
		CapacityMode: capacityMode,
		IsActive:     true,
	}
}

func committedBooking(petIDs []int64, fieldIDs []int64, staffID *int64) *domain.Booking {
	return &domain.Booking{
		ID:              1,
		Reference:       "ref-1",
		ClientID:        7,
		ServiceID:       1,
		FieldIDs:        fieldIDs,
		StartAt:         time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		EndAt:           time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		AssignedStaffID: staffID,
		PetIDs:          petIDs,
		Status:          domain.StatusCommitted,
	}
}

func onDutyRule(staffID int64) *domain.StaffAvailabilityRule {
	return &domain.StaffAvailabilityRule{
		ID:          int64(1000 + staffID),
		StaffID:     staffID,
		StartTime:   "08:00",
		EndTime:     "18:00",
		DaysOfWeek:  []int{1},
		IsAvailable: true,
	}
}

func TestResolveFieldCapacityWithExistingBooking(t *testing.T) {
	// Field capacity 5, one committed booking of 2 pets in the same window.
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeField)},
		Fields: map[int64]*domain.Field{
			10: {ID: 10, Name: "North Field", Capacity: ptr.Ptr(5), IsActive: true},
		},
		Bookings: []*domain.Booking{committedBooking([]int64{1, 2}, []int64{10}, nil)},
	}

	slots, mismatches, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Empty(t, mismatches)

	slot := slots[0]
	require.NotNil(t, slot.RemainingCapacity)
	assert.Equal(t, 3, *slot.RemainingCapacity)
	assert.Equal(t, domain.ReasonNone, slot.ZeroCapacityReason)
	assert.Equal(t, 25.0, slot.PricePerPet)
	assert.Equal(t, []int64{10}, slot.FieldIDs)
}

func TestResolveDefaultStaffOffDutyOtherAvailable(t *testing.T) {
	// Default staff is off duty; another staff member is on duty with capacity 1.
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)},
		Staff: []*domain.Staff{
			{ID: 1, Name: "Alice", DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
			{ID: 2, Name: "Bob", DefaultVehicleID: ptr.Ptr(int64(52)), IsActive: true},
		},
		StaffRules: []*domain.StaffAvailabilityRule{onDutyRule(2)},
		Vehicles: map[int64]*domain.Vehicle{
			51: {ID: 51, PetCapacity: ptr.Ptr(4)},
			52: {ID: 52, PetCapacity: ptr.Ptr(1)},
		},
		Fields: map[int64]*domain.Field{10: {ID: 10, IsActive: true}},
	}

	sctx := &StaffContext{DefaultStaffID: ptr.Ptr(int64(1))}
	slots, _, err := Resolve(snap, monday, monday, sctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	slot := slots[0]
	require.NotNil(t, slot.RemainingCapacity)
	assert.Equal(t, 0, *slot.RemainingCapacity)
	assert.Equal(t, domain.ReasonStaffFull, slot.ZeroCapacityReason)
	assert.True(t, slot.OtherStaffPotentiallyAvailable)
}

func TestResolveNoStaffOnDuty(t *testing.T) {
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)},
		Staff: []*domain.Staff{
			{ID: 1, Name: "Alice", DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
		},
		StaffRules: nil, // nobody has a working pattern
		Vehicles:   map[int64]*domain.Vehicle{51: {ID: 51, PetCapacity: ptr.Ptr(4)}},
		Fields:     map[int64]*domain.Field{10: {ID: 10, IsActive: true}},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	slot := slots[0]
	require.NotNil(t, slot.RemainingCapacity)
	assert.Equal(t, 0, *slot.RemainingCapacity)
	assert.Equal(t, domain.ReasonNoStaff, slot.ZeroCapacityReason)
	assert.False(t, slot.OtherStaffPotentiallyAvailable)
}

func TestResolveOverridePriceWins(t *testing.T) {
	rule := fieldRule([]int64{10}, domain.CapacityModeField)
	rule.OverridePrice = ptr.Ptr(30.0)

	snap := &Snapshot{
		Service: testService(), // default price 25.00
		Rules:   []*domain.ServiceAvailabilityRule{rule},
		Fields:  map[int64]*domain.Field{10: {ID: 10, Capacity: ptr.Ptr(5), IsActive: true}},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 30.0, slots[0].PricePerPet)
}

func TestResolveUnlimitedFieldCapacity(t *testing.T) {
	// A field with NULL capacity is unconstrained; the slot is unlimited.
	snap := &Snapshot{
		Service:  testService(),
		Rules:    []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeField)},
		Fields:   map[int64]*domain.Field{10: {ID: 10, Capacity: nil, IsActive: true}},
		Bookings: []*domain.Booking{committedBooking([]int64{1, 2, 3}, []int64{10}, nil)},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Nil(t, slots[0].RemainingCapacity)
	assert.Equal(t, domain.ReasonNone, slots[0].ZeroCapacityReason)
}

func TestResolveOverrideCapacityWins(t *testing.T) {
	rule := fieldRule([]int64{10}, domain.CapacityModeField)
	rule.OverrideCapacity = ptr.Ptr(2)

	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{rule},
		Fields:  map[int64]*domain.Field{10: {ID: 10, Capacity: ptr.Ptr(8), IsActive: true}},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].RemainingCapacity)
	assert.Equal(t, 2, *slots[0].RemainingCapacity)
}

func TestResolveNonNegativeRemaining(t *testing.T) {
	// More pets booked than the field holds; remaining clamps at zero.
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeField)},
		Fields:  map[int64]*domain.Field{10: {ID: 10, Capacity: ptr.Ptr(2), IsActive: true}},
		Bookings: []*domain.Booking{
			committedBooking([]int64{1, 2, 3, 4}, []int64{10}, nil),
		},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].RemainingCapacity)
	assert.Equal(t, 0, *slots[0].RemainingCapacity)
	assert.Equal(t, domain.ReasonBaseFull, slots[0].ZeroCapacityReason)
}

func TestResolveCancelledBookingsDoNotConsume(t *testing.T) {
	cancelled := committedBooking([]int64{1, 2}, []int64{10}, nil)
	cancelled.Status = domain.StatusCancelled

	snap := &Snapshot{
		Service:  testService(),
		Rules:    []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeField)},
		Fields:   map[int64]*domain.Field{10: {ID: 10, Capacity: ptr.Ptr(5), IsActive: true}},
		Bookings: []*domain.Booking{cancelled},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].RemainingCapacity)
	assert.Equal(t, 5, *slots[0].RemainingCapacity)
}

func TestResolveIdempotentRead(t *testing.T) {
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10, 11}, domain.CapacityModeField)},
		Fields: map[int64]*domain.Field{
			10: {ID: 10, Capacity: ptr.Ptr(5), IsActive: true},
			11: {ID: 11, Capacity: ptr.Ptr(3), IsActive: true},
		},
		Bookings: []*domain.Booking{committedBooking([]int64{1}, []int64{10}, nil)},
	}

	first, _, err := Resolve(snap, monday, monday.AddDate(0, 0, 13), nil)
	require.NoError(t, err)
	second, _, err := Resolve(snap, monday, monday.AddDate(0, 0, 13), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveSumModeAcrossStaff(t *testing.T) {
	// No staff context: remaining is the sum over on-duty staff.
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)},
		Staff: []*domain.Staff{
			{ID: 1, DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
			{ID: 2, DefaultVehicleID: ptr.Ptr(int64(52)), IsActive: true},
		},
		StaffRules: []*domain.StaffAvailabilityRule{onDutyRule(1), onDutyRule(2)},
		Vehicles: map[int64]*domain.Vehicle{
			51: {ID: 51, PetCapacity: ptr.Ptr(4)},
			52: {ID: 52, PetCapacity: ptr.Ptr(2)},
		},
		Fields:   map[int64]*domain.Field{10: {ID: 10, IsActive: true}},
		Bookings: []*domain.Booking{committedBooking([]int64{1}, nil, ptr.Ptr(int64(1)))},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].RemainingCapacity)
	assert.Equal(t, 5, *slots[0].RemainingCapacity) // (4-1) + 2
}

func TestResolveSumModeUnlimitedVehicleDominates(t *testing.T) {
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)},
		Staff: []*domain.Staff{
			{ID: 1, DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
			{ID: 2, DefaultVehicleID: ptr.Ptr(int64(52)), IsActive: true},
		},
		StaffRules: []*domain.StaffAvailabilityRule{onDutyRule(1), onDutyRule(2)},
		Vehicles: map[int64]*domain.Vehicle{
			51: {ID: 51, PetCapacity: ptr.Ptr(4)},
			52: {ID: 52, PetCapacity: nil}, // unconstrained van
		},
		Fields: map[int64]*domain.Field{10: {ID: 10, IsActive: true}},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Nil(t, slots[0].RemainingCapacity)
}

func TestResolveSumModeAllFull(t *testing.T) {
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)},
		Staff: []*domain.Staff{
			{ID: 1, DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
		},
		StaffRules: []*domain.StaffAvailabilityRule{onDutyRule(1)},
		Vehicles:   map[int64]*domain.Vehicle{51: {ID: 51, PetCapacity: ptr.Ptr(2)}},
		Fields:     map[int64]*domain.Field{10: {ID: 10, IsActive: true}},
		Bookings:   []*domain.Booking{committedBooking([]int64{1, 2}, nil, ptr.Ptr(int64(1)))},
	}

	slots, _, err := Resolve(snap, monday, monday, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].RemainingCapacity)
	assert.Equal(t, 0, *slots[0].RemainingCapacity)
	assert.Equal(t, domain.ReasonStaffFull, slots[0].ZeroCapacityReason)
}

func TestAutoAssignStaff(t *testing.T) {
	rule := fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)
	candidate := Candidate{
		Rule:      rule,
		Date:      monday,
		StartTime: "09:00",
		EndTime:   "10:00",
		StartAt:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		EndAt:     time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		FieldIDs:  []int64{10},
	}

	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{rule},
		Staff: []*domain.Staff{
			{ID: 1, DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
			{ID: 2, DefaultVehicleID: ptr.Ptr(int64(52)), IsActive: true},
		},
		StaffRules: []*domain.StaffAvailabilityRule{onDutyRule(1), onDutyRule(2)},
		Vehicles: map[int64]*domain.Vehicle{
			51: {ID: 51, PetCapacity: ptr.Ptr(2)},
			52: {ID: 52, PetCapacity: ptr.Ptr(4)},
		},
		Bookings: []*domain.Booking{committedBooking([]int64{1, 2}, nil, ptr.Ptr(int64(1)))},
	}

	// Первый сотрудник заполнен, двух питомцев берёт второй
	staffID, reason := AutoAssignStaff(snap, candidate, 2)
	require.NotNil(t, staffID)
	assert.Equal(t, int64(2), *staffID)
	assert.Equal(t, domain.ReasonNone, reason)

	// Пять питомцев не вмещает никто
	staffID, reason = AutoAssignStaff(snap, candidate, 5)
	assert.Nil(t, staffID)
	assert.Equal(t, domain.ReasonStaffFull, reason)
}

func TestAutoAssignStaffNobodyOnDuty(t *testing.T) {
	rule := fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)
	candidate := Candidate{
		Rule:      rule,
		Date:      monday,
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	snap := &Snapshot{
		Service: testService(),
		Staff: []*domain.Staff{
			{ID: 1, DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
		},
		Vehicles: map[int64]*domain.Vehicle{51: {ID: 51, PetCapacity: ptr.Ptr(4)}},
	}

	staffID, reason := AutoAssignStaff(snap, candidate, 1)
	assert.Nil(t, staffID)
	assert.Equal(t, domain.ReasonNoStaff, reason)
}

func TestAutoAssignStaffUnlimitedVehicle(t *testing.T) {
	rule := fieldRule([]int64{10}, domain.CapacityModeStaffVehicle)
	candidate := Candidate{
		Rule:      rule,
		Date:      monday,
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	snap := &Snapshot{
		Service: testService(),
		Staff: []*domain.Staff{
			{ID: 1, DefaultVehicleID: ptr.Ptr(int64(51)), IsActive: true},
		},
		StaffRules: []*domain.StaffAvailabilityRule{onDutyRule(1)},
		Vehicles:   map[int64]*domain.Vehicle{51: {ID: 51, PetCapacity: nil}},
	}

	staffID, reason := AutoAssignStaff(snap, candidate, 40)
	require.NotNil(t, staffID)
	assert.Equal(t, int64(1), *staffID)
	assert.Equal(t, domain.ReasonNone, reason)
}

func TestStaffSpecificDateOverridesRecurring(t *testing.T) {
	// Recurring Monday availability is overruled by a specific-date time-off.
	timeOff := &domain.StaffAvailabilityRule{
		ID:           2001,
		StaffID:      1,
		StartTime:    "08:00",
		EndTime:      "18:00",
		SpecificDate: ptr.Ptr(monday),
		IsAvailable:  false,
	}

	rules := []*domain.StaffAvailabilityRule{onDutyRule(1), timeOff}
	assert.False(t, staffOnDuty(rules, 1, monday, "09:00", "10:00"))

	// On a Monday without the specific-date rule, the recurring pattern applies.
	nextMonday := monday.AddDate(0, 0, 7)
	assert.True(t, staffOnDuty(rules, 1, nextMonday, "09:00", "10:00"))
}

func TestStaffSpecificDateGrantsDutyOutsidePattern(t *testing.T) {
	// An extra specific-date shift puts staff on duty even with no recurring rule.
	extraShift := &domain.StaffAvailabilityRule{
		ID:           2002,
		StaffID:      1,
		StartTime:    "09:00",
		EndTime:      "12:00",
		SpecificDate: ptr.Ptr(monday),
		IsAvailable:  true,
	}

	rules := []*domain.StaffAvailabilityRule{extraShift}
	assert.True(t, staffOnDuty(rules, 1, monday, "09:00", "10:00"))
	assert.False(t, staffOnDuty(rules, 1, monday.AddDate(0, 0, 7), "09:00", "10:00"))
}

func TestStaffOnDutyRequiresFullCoverage(t *testing.T) {
	shortShift := &domain.StaffAvailabilityRule{
		ID:          2003,
		StaffID:     1,
		StartTime:   "09:00",
		EndTime:     "09:30",
		DaysOfWeek:  []int{1},
		IsAvailable: true,
	}

	rules := []*domain.StaffAvailabilityRule{shortShift}
	assert.False(t, staffOnDuty(rules, 1, monday, "09:00", "10:00"))
	assert.True(t, staffOnDuty(rules, 1, monday, "09:00", "09:30"))
}

func TestGenerateCandidatesPerFieldMode(t *testing.T) {
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10, 11}, domain.CapacityModeField)},
	}

	candidates, err := GenerateCandidates(snap, monday, monday)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, []int64{10}, candidates[0].FieldIDs)
	assert.Equal(t, []int64{11}, candidates[1].FieldIDs)
}

func TestGenerateCandidatesStaffModeSingleCandidate(t *testing.T) {
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10, 11}, domain.CapacityModeStaffVehicle)},
	}

	candidates, err := GenerateCandidates(snap, monday, monday)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, []int64{10, 11}, candidates[0].FieldIDs)
}

func TestGenerateCandidatesSkipsInvalidRules(t *testing.T) {
	conflicted := fieldRule([]int64{10}, domain.CapacityModeField)
	conflicted.SpecificDate = ptr.Ptr(monday) // both schedule kinds set

	inactive := fieldRule([]int64{11}, domain.CapacityModeField)
	inactive.IsActive = false

	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{conflicted, inactive},
	}

	candidates, err := GenerateCandidates(snap, monday, monday)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGenerateCandidatesRangeExpansion(t *testing.T) {
	// A Monday rule over a two-week range yields exactly two candidates.
	snap := &Snapshot{
		Service: testService(),
		Rules:   []*domain.ServiceAvailabilityRule{fieldRule([]int64{10}, domain.CapacityModeField)},
	}

	candidates, err := GenerateCandidates(snap, monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, monday, candidates[0].Date)
	assert.Equal(t, monday.AddDate(0, 0, 7), candidates[1].Date)
}

func TestAggregateNullDominance(t *testing.T) {
	rule := fieldRule([]int64{10, 11}, domain.CapacityModeField)
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	resolved := []ResolvedSlot{
		{
			Candidate:         Candidate{Rule: rule, StartAt: start, EndAt: end, FieldIDs: []int64{10}},
			RemainingCapacity: ptr.Ptr(3),
			PricePerPet:       25.0,
		},
		{
			Candidate:         Candidate{Rule: rule, StartAt: start, EndAt: end, FieldIDs: []int64{11}},
			RemainingCapacity: nil, // unlimited member dominates
			PricePerPet:       25.0,
		},
	}

	slots, mismatches := Aggregate(1, resolved)
	require.Len(t, slots, 1)
	assert.Empty(t, mismatches)
	assert.Nil(t, slots[0].RemainingCapacity)
	assert.Equal(t, []int64{10, 11}, slots[0].FieldIDs)
}

func TestAggregateSumsCapacityAcrossGroup(t *testing.T) {
	rule := fieldRule([]int64{10, 11}, domain.CapacityModeField)
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	resolved := []ResolvedSlot{
		{
			Candidate:         Candidate{Rule: rule, StartAt: start, EndAt: end, FieldIDs: []int64{10}},
			RemainingCapacity: ptr.Ptr(3),
			PricePerPet:       25.0,
		},
		{
			Candidate:         Candidate{Rule: rule, StartAt: start, EndAt: end, FieldIDs: []int64{11}},
			RemainingCapacity: ptr.Ptr(2),
			PricePerPet:       25.0,
		},
	}

	slots, _ := Aggregate(1, resolved)
	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].RemainingCapacity)
	assert.Equal(t, 5, *slots[0].RemainingCapacity)
}

func TestAggregatePriceMismatchIsWarningNotError(t *testing.T) {
	rule := fieldRule([]int64{10, 11}, domain.CapacityModeField)
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	resolved := []ResolvedSlot{
		{
			Candidate:         Candidate{Rule: rule, StartAt: start, EndAt: end, FieldIDs: []int64{10}},
			RemainingCapacity: ptr.Ptr(3),
			PricePerPet:       25.0,
		},
		{
			Candidate:         Candidate{Rule: rule, StartAt: start, EndAt: end, FieldIDs: []int64{11}},
			RemainingCapacity: ptr.Ptr(2),
			PricePerPet:       30.0,
		},
	}

	slots, mismatches := Aggregate(1, resolved)
	require.Len(t, slots, 1)
	require.Len(t, mismatches, 1)

	// The engine proceeds with the first member's price.
	assert.Equal(t, 25.0, slots[0].PricePerPet)
	assert.Equal(t, 25.0, mismatches[0].Expected)
	assert.Equal(t, 30.0, mismatches[0].Actual)
}

func TestAggregateSortsByStartTime(t *testing.T) {
	rule := fieldRule([]int64{10}, domain.CapacityModeField)
	early := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	resolved := []ResolvedSlot{
		{
			Candidate:         Candidate{Rule: rule, StartAt: late, EndAt: late.Add(time.Hour), FieldIDs: []int64{10}},
			RemainingCapacity: ptr.Ptr(1),
		},
		{
			Candidate:         Candidate{Rule: rule, StartAt: early, EndAt: early.Add(time.Hour), FieldIDs: []int64{10}},
			RemainingCapacity: ptr.Ptr(1),
		},
	}

	slots, _ := Aggregate(1, resolved)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].StartAt.Before(slots[1].StartAt))
}
