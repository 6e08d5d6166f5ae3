// Package availability движок расчёта доступных слотов
//
// Чистое вычисление над консистентным срезом правил и журнала бронирований:
// Snapshot -> генерация кандидатов -> расчёт вместимости -> агрегация.
// Пакет не ходит в БД и не имеет побочных эффектов, read path может
// выполняться параллельно для независимых диапазонов дат.
package availability

import (
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
	"github.com/pawfield/PF-BookingService/pkg/types"
)

// Snapshot срез данных, над которым выполняется расчёт
// Загружается usecase-слоем из Rule Store и журнала бронирований.
type Snapshot struct {
	Service    *domain.Service
	Rules      []*domain.ServiceAvailabilityRule
	Staff      []*domain.Staff
	StaffRules []*domain.StaffAvailabilityRule
	Vehicles   map[int64]*domain.Vehicle
	Fields     map[int64]*domain.Field
	Bookings   []*domain.Booking
}

// StaffContext контекст клиента для staff/vehicle-режима
// DefaultStaffID - предпочитаемый сотрудник клиента; nil = режим суммы
// по всем сотрудникам на смене (просмотр администратором).
type StaffContext struct {
	DefaultStaffID *int64
}

// Candidate кандидат-слот: конкретное окно (дата + времена правила)
// В field-режиме кандидат привязан к одной площадке, в staff-режиме
// несёт все площадки правила как метаданные.
type Candidate struct {
	Rule      *domain.ServiceAvailabilityRule
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	StartAt   time.Time
	EndAt     time.Time
	FieldIDs  []int64
}

// ResolvedSlot кандидат с рассчитанной вместимостью
type ResolvedSlot struct {
	Candidate

	RemainingCapacity              *int // nil = unlimited
	PricePerPet                    float64
	Reason                         domain.ZeroCapacityReason
	OtherStaffPotentiallyAvailable bool
}

// PriceMismatch расхождение цены внутри одной агрегируемой группы слотов
// Не фатально: движок продолжает с ценой первого участника группы,
// расхождение поднимается наверх как data-integrity warning.
type PriceMismatch struct {
	StartAt  time.Time
	EndAt    time.Time
	Expected float64
	Actual   float64
}
