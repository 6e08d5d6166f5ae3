package availability

import (
	"math"
	"sort"
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
)

// priceEpsilon допуск при сравнении цен внутри группы
const priceEpsilon = 0.005

// Aggregate сливает кандидаты с одинаковым окном (start, end) в клиентские слоты
//
// Правила агрегации:
//   - вместимость: сумма по группе; если хотя бы у одного участника безлимит (nil),
//     агрегат безлимитный - безлимит доминирует
//   - цена: значение первого участника; расхождение внутри группы - warning,
//     не ошибка, движок продолжает с репрезентативной ценой
//   - other_staff_potentially_available: OR по группе
//   - contributing field_ids: объединение
//
// Результат отсортирован по времени начала по возрастанию.
func Aggregate(serviceID int64, resolved []ResolvedSlot) ([]*domain.AvailableSlot, []PriceMismatch) {
	type group struct {
		slot      *domain.AvailableSlot
		unlimited bool
		capSum    int
		reason    domain.ZeroCapacityReason
		fieldSet  map[int64]struct{}
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	mismatches := make([]PriceMismatch, 0)

	for _, r := range resolved {
		key := r.StartAt.Format("2006-01-02T15:04") + "/" + r.EndAt.Format("2006-01-02T15:04")

		g, ok := groups[key]
		if !ok {
			g = &group{
				slot: &domain.AvailableSlot{
					ServiceID:          serviceID,
					StartAt:            r.StartAt,
					EndAt:              r.EndAt,
					PricePerPet:        r.PricePerPet,
					CapacityMode:       r.Rule.CapacityMode,
					ZeroCapacityReason: domain.ReasonNone,
				},
				reason:   domain.ReasonNone,
				fieldSet: make(map[int64]struct{}),
			}
			groups[key] = g
			order = append(order, key)
		} else if math.Abs(g.slot.PricePerPet-r.PricePerPet) > priceEpsilon {
			mismatches = append(mismatches, PriceMismatch{
				StartAt:  r.StartAt,
				EndAt:    r.EndAt,
				Expected: g.slot.PricePerPet,
				Actual:   r.PricePerPet,
			})
		}

		if r.RemainingCapacity == nil {
			g.unlimited = true
		} else {
			g.capSum += *r.RemainingCapacity
		}

		if r.OtherStaffPotentiallyAvailable {
			g.slot.OtherStaffPotentiallyAvailable = true
		}
		if g.reason == domain.ReasonNone && r.Reason != domain.ReasonNone {
			g.reason = r.Reason
		}
		for _, fieldID := range r.FieldIDs {
			g.fieldSet[fieldID] = struct{}{}
		}
	}

	slots := make([]*domain.AvailableSlot, 0, len(order))
	for _, key := range order {
		g := groups[key]

		if g.unlimited {
			g.slot.RemainingCapacity = nil
		} else {
			capSum := g.capSum
			g.slot.RemainingCapacity = &capSum
		}

		// Причина нулевой вместимости имеет смысл только когда агрегат не бронируем
		if !g.slot.IsBookable() {
			g.slot.ZeroCapacityReason = g.reason
		}

		g.slot.FieldIDs = make([]int64, 0, len(g.fieldSet))
		for fieldID := range g.fieldSet {
			g.slot.FieldIDs = append(g.slot.FieldIDs, fieldID)
		}
		sort.Slice(g.slot.FieldIDs, func(i, j int) bool { return g.slot.FieldIDs[i] < g.slot.FieldIDs[j] })

		slots = append(slots, g.slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartAt.Equal(slots[j].StartAt) {
			return slots[i].EndAt.Before(slots[j].EndAt)
		}
		return slots[i].StartAt.Before(slots[j].StartAt)
	})

	return slots, mismatches
}

// Resolve полный проход движка: генерация кандидатов, расчёт вместимости, агрегация
// Чистая функция от снапшота: повторный вызов с теми же данными даёт тот же результат.
func Resolve(snap *Snapshot, from, to time.Time, sctx *StaffContext) ([]*domain.AvailableSlot, []PriceMismatch, error) {
	candidates, err := GenerateCandidates(snap, from, to)
	if err != nil {
		return nil, nil, err
	}

	resolved := make([]ResolvedSlot, 0, len(candidates))
	for _, candidate := range candidates {
		resolved = append(resolved, ResolveCandidate(snap, candidate, sctx))
	}

	slots, mismatches := Aggregate(snap.Service.ID, resolved)
	return slots, mismatches, nil
}
