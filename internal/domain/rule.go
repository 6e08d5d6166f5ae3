package domain

import (
	"errors"
	"time"

	"github.com/pawfield/PF-BookingService/pkg/types"
)

var (
	// ErrRuleScheduleConflict правило задаёт и дни недели, и конкретную дату
	ErrRuleScheduleConflict = errors.New("rule: days_of_week and specific_date are mutually exclusive")

	// ErrRuleScheduleMissing правило не задаёт ни дни недели, ни конкретную дату
	ErrRuleScheduleMissing = errors.New("rule: either days_of_week or specific_date must be set")

	// ErrRuleInvalidWindow окно правила некорректно (end_time <= start_time)
	// Окна через полночь не поддерживаются: конец должен быть позже начала в тех же сутках
	ErrRuleInvalidWindow = errors.New("rule: end_time must be later than start_time within the same day")

	// ErrRuleNoFields у правила пустой набор площадок
	ErrRuleNoFields = errors.New("rule: field_ids must not be empty")

	// ErrRuleInvalidWeekday день недели вне диапазона ISO 1-7
	ErrRuleInvalidWeekday = errors.New("rule: weekday must be in range 1-7")

	// ErrRuleInvalidCapacityMode неизвестный режим вместимости
	ErrRuleInvalidCapacityMode = errors.New("rule: unknown capacity mode")
)

// ServiceAvailabilityRule declarative availability window for a service
// Either recurring (DaysOfWeek, ISO 1-7) or bound to a single SpecificDate.
type ServiceAvailabilityRule struct {
	ID               int64
	ServiceID        int64
	FieldIDs         []int64
	StartTime        types.TimeString
	EndTime          types.TimeString
	DaysOfWeek       []int      // ISO weekdays, Monday=1 .. Sunday=7; empty when SpecificDate is set
	SpecificDate     *time.Time // date-only; nil for recurring rules
	CapacityMode     CapacityMode
	OverrideCapacity *int     // nil = derive from field capacities
	OverridePrice    *float64 // nil = use service default price
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты правила
func (r *ServiceAvailabilityRule) Validate() error {
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
	if len(r.FieldIDs) == 0 {
		return ErrRuleNoFields
	}
	if !r.CapacityMode.IsValid() {
		return ErrRuleInvalidCapacityMode
	}
	return nil
}

// IsRecurring возвращает true для правила по дням недели
func (r *ServiceAvailabilityRule) IsRecurring() bool {
	return r.SpecificDate == nil
}

// AppliesTo возвращает true, если правило действует в указанную дату
// Для recurring-правила: ISO-день недели даты входит в DaysOfWeek
// Для правила на конкретную дату: даты совпадают (по календарному дню)
func (r *ServiceAvailabilityRule) AppliesTo(date time.Time) bool {
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

// ISOWeekday возвращает ISO-номер дня недели: Monday=1 .. Sunday=7
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// sameDate сравнивает календарные дни без учета времени
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
