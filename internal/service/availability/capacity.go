package availability

import (
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
	"github.com/pawfield/PF-BookingService/pkg/types"
)

// ResolveCandidate рассчитывает остаток вместимости кандидата-слота
// Возвращает остаток (nil = безлимит), причину нулевой вместимости и флаг
// "возможно доступен другой сотрудник" (enquire-подсказка для клиента).
func ResolveCandidate(snap *Snapshot, c Candidate, sctx *StaffContext) ResolvedSlot {
	resolved := ResolvedSlot{
		Candidate:   c,
		PricePerPet: resolvePrice(snap.Service, c.Rule),
		Reason:      domain.ReasonNone,
	}

	switch c.Rule.CapacityMode {
	case domain.CapacityModeStaffVehicle:
		resolved.RemainingCapacity, resolved.Reason, resolved.OtherStaffPotentiallyAvailable =
			resolveStaffCapacity(snap, c, sctx)
	default:
		resolved.RemainingCapacity, resolved.Reason = resolveFieldCapacity(snap, c)
	}

	return resolved
}

// resolvePrice цена за питомца: override правила, иначе базовая цена услуги, иначе 0
func resolvePrice(service *domain.Service, rule *domain.ServiceAvailabilityRule) float64 {
	if rule.OverridePrice != nil {
		return *rule.OverridePrice
	}
	return service.PricePerPet()
}

// resolveFieldCapacity вместимость в field-режиме
//
// total = override правила, иначе минимум по не-NULL вместимостям площадок
// (NULL у площадки = без ограничения, в минимум не входит; все NULL = безлимит).
// consumed = число уникальных питомцев по бронированиям с точно тем же окном,
// пересекающимся по площадкам.
func resolveFieldCapacity(snap *Snapshot, c Candidate) (*int, domain.ZeroCapacityReason) {
	total := c.Rule.OverrideCapacity
	if total == nil {
		for _, fieldID := range c.FieldIDs {
			field, ok := snap.Fields[fieldID]
			if !ok || field.Capacity == nil {
				continue
			}
			if total == nil || *field.Capacity < *total {
				capValue := *field.Capacity
				total = &capValue
			}
		}
	}

	if total == nil {
		// Ни одна площадка не ограничена - слот безлимитный
		return nil, domain.ReasonNone
	}

	consumed := distinctPets(snap.Bookings, func(b *domain.Booking) bool {
		return b.MatchesWindow(c.StartAt, c.EndAt) && b.IntersectsFields(c.FieldIDs)
	})

	remaining := *total - consumed
	if remaining <= 0 {
		zero := 0
		return &zero, domain.ReasonBaseFull
	}
	return &remaining, domain.ReasonNone
}

// resolveStaffCapacity вместимость в staff/vehicle-режиме
func resolveStaffCapacity(snap *Snapshot, c Candidate, sctx *StaffContext) (*int, domain.ZeroCapacityReason, bool) {
	onDuty := onDutyStaffIDs(snap, c.Date, c.StartTime, c.EndTime)
	if len(onDuty) == 0 {
		zero := 0
		return &zero, domain.ReasonNoStaff, false
	}

	if sctx != nil && sctx.DefaultStaffID != nil {
		return resolveDefaultStaffCapacity(snap, c, *sctx.DefaultStaffID, onDuty)
	}

	// Без привязки к сотруднику (просмотр администратором) - сумма остатков
	// по всем сотрудникам на смене; безлимитный сотрудник делает слот безлимитным
	total := 0
	for _, staffID := range onDuty {
		remaining := staffRemaining(snap, staffID, c)
		if remaining == nil {
			return nil, domain.ReasonNone, false
		}
		if *remaining > 0 {
			total += *remaining
		}
	}

	if total <= 0 {
		zero := 0
		return &zero, domain.ReasonStaffFull, false
	}
	return &total, domain.ReasonNone, false
}

// resolveDefaultStaffCapacity вместимость относительно предпочитаемого сотрудника клиента
//
// Если сотрудник не на смене или его машина заполнена, но на смене есть другой
// сотрудник со свободной вместимостью - слот показывается как "enquire":
// remaining=0, reason=staff_full, other_staff_potentially_available=true.
func resolveDefaultStaffCapacity(snap *Snapshot, c Candidate, defaultStaffID int64, onDuty []int64) (*int, domain.ZeroCapacityReason, bool) {
	defaultOnDuty := containsID(onDuty, defaultStaffID)

	var defaultRemaining *int
	if defaultOnDuty {
		defaultRemaining = staffRemaining(snap, defaultStaffID, c)
	}

	if !defaultOnDuty || (defaultRemaining != nil && *defaultRemaining <= 0) {
		otherAvailable := false
		for _, staffID := range onDuty {
			if staffID == defaultStaffID {
				continue
			}
			remaining := staffRemaining(snap, staffID, c)
			if remaining == nil || *remaining > 0 {
				otherAvailable = true
				break
			}
		}
		zero := 0
		return &zero, domain.ReasonStaffFull, otherAvailable
	}

	return defaultRemaining, domain.ReasonNone, false
}

// AutoAssignStaff подбирает сотрудника на смене с остатком вместимости,
// покрывающим petCount питомцев
//
// Используется write path'ом, когда ни клиент, ни запрос не закрепили
// сотрудника: бронирование в staff/vehicle-режиме всегда фиксируется за
// конкретным сотрудником, иначе оно не потребляло бы ничью вместимость.
// Возвращает nil и причину, когда подобрать некого: no_staff - никто не на
// смене, staff_full - у всех на смене не хватает мест.
func AutoAssignStaff(snap *Snapshot, c Candidate, petCount int) (*int64, domain.ZeroCapacityReason) {
	onDuty := onDutyStaffIDs(snap, c.Date, c.StartTime, c.EndTime)
	if len(onDuty) == 0 {
		return nil, domain.ReasonNoStaff
	}

	for _, staffID := range onDuty {
		remaining := staffRemaining(snap, staffID, c)
		if remaining == nil || *remaining >= petCount {
			id := staffID
			return &id, domain.ReasonNone
		}
	}
	return nil, domain.ReasonStaffFull
}

// staffRemaining остаток вместимости машины сотрудника на окно кандидата
// nil = безлимит (у машины не задана вместимость)
// Сотрудник без машины вместимости не даёт.
func staffRemaining(snap *Snapshot, staffID int64, c Candidate) *int {
	staff := findStaff(snap.Staff, staffID)
	if staff == nil || staff.DefaultVehicleID == nil {
		zero := 0
		return &zero
	}

	vehicle, ok := snap.Vehicles[*staff.DefaultVehicleID]
	if !ok {
		zero := 0
		return &zero
	}
	if vehicle.PetCapacity == nil {
		return nil
	}

	consumed := distinctPets(snap.Bookings, func(b *domain.Booking) bool {
		return b.AssignedStaffID != nil && *b.AssignedStaffID == staffID && b.Overlaps(c.StartAt, c.EndAt)
	})

	remaining := *vehicle.PetCapacity - consumed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// onDutyStaffIDs возвращает сотрудников на смене для даты и окна
//
// Двухпроходный поиск: правила на конкретную дату имеют приоритет над
// recurring-правилами. Если для сотрудника в эту дату есть хотя бы одно
// правило на конкретную дату, затрагивающее окно, решение принимается только
// по таким правилам; recurring-правила рассматриваются лишь при их отсутствии.
// Сотрудник на смене, если окно полностью покрыто правилом is_available=true
// и не задето ни одним is_available=false.
func onDutyStaffIDs(snap *Snapshot, date time.Time, start, end types.TimeString) []int64 {
	onDuty := make([]int64, 0, len(snap.Staff))
	for _, staff := range snap.Staff {
		if !staff.IsActive {
			continue
		}
		if staffOnDuty(snap.StaffRules, staff.ID, date, start, end) {
			onDuty = append(onDuty, staff.ID)
		}
	}
	return onDuty
}

// staffOnDuty решает on-duty статус одного сотрудника
func staffOnDuty(rules []*domain.StaffAvailabilityRule, staffID int64, date time.Time, start, end types.TimeString) bool {
	// Первый проход: правила на конкретную дату
	specific := make([]*domain.StaffAvailabilityRule, 0)
	for _, rule := range rules {
		if rule.StaffID != staffID || !rule.IsSpecificDate() {
			continue
		}
		if rule.AppliesTo(date) && rule.Overlaps(start, end) {
			specific = append(specific, rule)
		}
	}
	if len(specific) > 0 {
		return decideOnDuty(specific, start, end)
	}

	// Второй проход: recurring-правила
	recurring := make([]*domain.StaffAvailabilityRule, 0)
	for _, rule := range rules {
		if rule.StaffID != staffID || rule.IsSpecificDate() {
			continue
		}
		if rule.AppliesTo(date) {
			recurring = append(recurring, rule)
		}
	}
	return decideOnDuty(recurring, start, end)
}

func decideOnDuty(rules []*domain.StaffAvailabilityRule, start, end types.TimeString) bool {
	covered := false
	for _, rule := range rules {
		if !rule.IsAvailable && rule.Overlaps(start, end) {
			return false
		}
		if rule.IsAvailable && rule.Covers(start, end) {
			covered = true
		}
	}
	return covered
}

// distinctPets число уникальных питомцев по активным бронированиям, прошедшим фильтр
func distinctPets(bookings []*domain.Booking, match func(*domain.Booking) bool) int {
	pets := make(map[int64]struct{})
	for _, booking := range bookings {
		if !booking.IsActive() || !match(booking) {
			continue
		}
		for _, petID := range booking.PetIDs {
			pets[petID] = struct{}{}
		}
	}
	return len(pets)
}

func findStaff(staff []*domain.Staff, id int64) *domain.Staff {
	for _, s := range staff {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
