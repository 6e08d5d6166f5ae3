package domain

import (
	"time"

	"github.com/pawfield/PF-BookingService/pkg/types"
)

// Staff represents a staff member who can take bookings
type Staff struct {
	ID               int64
	Name             string
	DefaultVehicleID *int64 // nil = staff has no vehicle assigned
	IsActive         bool
}

// Vehicle transport assigned to a staff member; bounds staff-based capacity
type Vehicle struct {
	ID          int64
	Name        string
	PetCapacity *int // nil = unconstrained
}

// StaffAvailabilityRule working pattern or explicit time-off for a staff member
// IsAvailable=false represents time-off overriding a broader available window.
type StaffAvailabilityRule struct {
	ID           int64
	StaffID      int64
	StartTime    types.TimeString
	EndTime      types.TimeString
	DaysOfWeek   []int
	SpecificDate *time.Time
	IsAvailable  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты правила доступности сотрудника
func (r *StaffAvailabilityRule) Validate() error {
	if len(r.DaysOfWeek) > 0 && r.SpecificDate != nil {
		return ErrRuleScheduleConflict
	}
	if len(r.DaysOfWeek) == 0 && r.SpecificDate == nil {
		return ErrRuleScheduleMissing
	}
	for _, d := range r.DaysOfWeek {
		if d < 1 || d > 7 {
			return ErrRuleInvalidWeekday
		}
	}
	if err := r.StartTime.Validate(); err != nil {
		return err
	}
	if err := r.EndTime.Validate(); err != nil {
		return err
	}
	if !r.EndTime.IsAfter(r.StartTime) {
		return ErrRuleInvalidWindow
	}
	return nil
}

// IsSpecificDate возвращает true для правила на конкретную дату
func (r *StaffAvailabilityRule) IsSpecificDate() bool {
	return r.SpecificDate != nil
}

// AppliesTo возвращает true, если правило действует в указанную дату
func (r *StaffAvailabilityRule) AppliesTo(date time.Time) bool {
	if r.SpecificDate != nil {
		return sameDate(*r.SpecificDate, date)
	}
	weekday := ISOWeekday(date)
	for _, d := range r.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

// Covers возвращает true, если окно правила полностью покрывает [start, end]
func (r *StaffAvailabilityRule) Covers(start, end types.TimeString) bool {
	return !r.StartTime.IsAfter(start) && !r.EndTime.IsBefore(end)
}

// Overlaps возвращает true, если окно правила пересекается с [start, end)
// Граничащие окна пересечением не считаются
func (r *StaffAvailabilityRule) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start)
}
