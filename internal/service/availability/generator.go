package availability

import (
	"fmt"
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
)

// GenerateCandidates разворачивает правила доступности услуги в кандидаты-слоты
// на закрытый диапазон дат [from, to]
//
// Recurring-правило действует в дату, если её ISO-день недели входит в days_of_week.
// Правило на конкретную дату действует, если дата попадает в диапазон.
// В field-режиме (или когда услуга требует выбора площадки) на каждую площадку
// правила создаётся отдельный кандидат; в staff-режиме - один кандидат на правило.
//
// Времена кандидата собираются из времени суток правила и даты в часовом поясе
// услуги. Неактивные и некорректные правила пропускаются.
func GenerateCandidates(snap *Snapshot, from, to time.Time) ([]Candidate, error) {
	loc, err := snap.Service.Location()
	if err != nil {
		return nil, fmt.Errorf("availability: unknown service timezone %q: %v", snap.Service.Timezone, err)
	}

	candidates := make([]Candidate, 0)

	for date := dateOnly(from, loc); !date.After(dateOnly(to, loc)); date = date.AddDate(0, 0, 1) {
		for _, rule := range snap.Rules {
			if !rule.IsActive {
				continue
			}
			if rule.Validate() != nil {
				// Некорректное правило в хранилище не должно ронять весь расчёт
				continue
			}
			if !rule.AppliesTo(date) {
				continue
			}

			startAt, err := rule.StartTime.On(date, loc)
			if err != nil {
				return nil, fmt.Errorf("availability: rule id=%d: %v", rule.ID, err)
			}
			endAt, err := rule.EndTime.On(date, loc)
			if err != nil {
				return nil, fmt.Errorf("availability: rule id=%d: %v", rule.ID, err)
			}

			if perFieldMode(snap.Service, rule) {
				for _, fieldID := range rule.FieldIDs {
					candidates = append(candidates, Candidate{
						Rule:      rule,
						Date:      date,
						StartTime: rule.StartTime,
						EndTime:   rule.EndTime,
						StartAt:   startAt,
						EndAt:     endAt,
						FieldIDs:  []int64{fieldID},
					})
				}
			} else {
				candidates = append(candidates, Candidate{
					Rule:      rule,
					Date:      date,
					StartTime: rule.StartTime,
					EndTime:   rule.EndTime,
					StartAt:   startAt,
					EndAt:     endAt,
					FieldIDs:  append([]int64(nil), rule.FieldIDs...),
				})
			}
		}
	}

	return candidates, nil
}

// perFieldMode возвращает true, если кандидаты создаются по одному на площадку
func perFieldMode(service *domain.Service, rule *domain.ServiceAvailabilityRule) bool {
	return rule.CapacityMode == domain.CapacityModeField || service.RequiresFieldSelection
}

// dateOnly обнуляет время, оставляя календарный день в указанном поясе
func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
