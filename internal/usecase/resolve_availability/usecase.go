package resolve_availability

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pawfield/PF-BookingService/internal/domain"
	rulesRepo "github.com/pawfield/PF-BookingService/internal/infra/storage/rules"
	"github.com/pawfield/PF-BookingService/internal/integrations/clientservice"
	"github.com/pawfield/PF-BookingService/internal/service/availability"
)

// UseCase use case расчёта доступных слотов
//
// Read path движка: загружает снапшот (услуга, правила, сотрудники, машины,
// площадки, пересекающиеся бронирования) и отдаёт его чистому движку
// availability.Resolve. Расчёт идемпотентен и не пишет в БД.
type UseCase struct {
	rulesRepo    RulesRepository
	bookingRepo  BookingRepository
	clientClient ClientServiceClient
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rulesRepo RulesRepository,
	bookingRepo BookingRepository,
	clientClient ClientServiceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		rulesRepo:    rulesRepo,
		bookingRepo:  bookingRepo,
		clientClient: clientClient,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case расчёта доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveAvailability: service=%d, range=%s..%s",
		req.ServiceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.rulesRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrServiceNotFound) {
			uc.logger.Warn("ResolveAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ResolveAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("ResolveAvailability: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	loc, err := service.Location()
	if err != nil {
		uc.logger.Error("ResolveAvailability: invalid timezone %q for service id=%d: %v",
			service.Timezone, service.ID, err)
		return nil, fmt.Errorf("%w: invalid service timezone: %v", ErrInternal, err)
	}

	// 3. Контекст клиента: предпочитаемый сотрудник для staff/vehicle-режима
	// При недоступности ClientService деградируем до режима суммы по всем сотрудникам
	sctx, err := uc.resolveStaffContext(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	// 4. Активные правила услуги
	rules, err := uc.rulesRepo.ListActiveRulesByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list rules for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to list availability rules: %v", ErrInternal, err)
	}

	if len(rules) == 0 {
		uc.logger.Info("ResolveAvailability: no active rules for service id=%d", req.ServiceID)
		return uc.buildResponse(req, nil), nil
	}

	// 5. Собираем снапшот справочных данных и журнала
	snap, err := uc.loadSnapshot(ctx, service, rules, req, loc)
	if err != nil {
		return nil, err
	}

	// 6. Запускаем движок
	slots, mismatches, err := availability.Resolve(snap, req.StartDate, req.EndDate, sctx)
	if err != nil {
		uc.logger.Error("ResolveAvailability: engine failed for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
	}

	// Расхождение цен внутри группы - data-integrity warning, не ошибка
	for _, mismatch := range mismatches {
		uc.logger.Warn("ResolveAvailability: price mismatch for service id=%d window %s-%s: expected=%.2f, actual=%.2f",
			req.ServiceID,
			mismatch.StartAt.Format(time.RFC3339), mismatch.EndAt.Format(time.RFC3339),
			mismatch.Expected, mismatch.Actual)
		if uc.metrics != nil {
			uc.metrics.IncPriceMismatch(strconv.FormatInt(req.ServiceID, 10))
		}
	}

	uc.logger.Info("ResolveAvailability: service=%d resolved %d slots", req.ServiceID, len(slots))

	return uc.buildResponse(req, slots), nil
}

// resolveStaffContext получает контекст предпочитаемого сотрудника клиента
// nil контекст = режим суммы по всем сотрудникам на смене
func (uc *UseCase) resolveStaffContext(ctx context.Context, clientID *int64) (*availability.StaffContext, error) {
	if clientID == nil {
		return nil, nil
	}

	profile, err := uc.clientClient.GetClientWithGracefulDegradation(ctx, *clientID)
	if err != nil {
		if errors.Is(err, clientservice.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, clientservice.ErrServiceDegraded) {
			uc.logger.Warn("ResolveAvailability: ClientService degraded, resolving without staff context for client id=%d", *clientID)
			return nil, nil
		}
		uc.logger.Error("ResolveAvailability: failed to get client id=%d: %v", *clientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	return &availability.StaffContext{DefaultStaffID: profile.DefaultStaffID}, nil
}

// loadSnapshot загружает срез данных для движка: справочники и журнал бронирований
func (uc *UseCase) loadSnapshot(
	ctx context.Context,
	service *domain.Service,
	rules []*domain.ServiceAvailabilityRule,
	req *Request,
	loc *time.Location,
) (*availability.Snapshot, error) {
	staff, err := uc.rulesRepo.ListStaff(ctx)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	staffRules, err := uc.rulesRepo.ListStaffRules(ctx)
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list staff rules: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff rules: %v", ErrInternal, err)
	}

	fields, err := uc.rulesRepo.ListFieldsByIDs(ctx, collectFieldIDs(rules))
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list fields: %v", err)
		return nil, fmt.Errorf("%w: failed to list fields: %v", ErrInternal, err)
	}

	vehicles, err := uc.rulesRepo.ListVehiclesByIDs(ctx, collectVehicleIDs(staff))
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list vehicles: %v", err)
		return nil, fmt.Errorf("%w: failed to list vehicles: %v", ErrInternal, err)
	}

	// Журнал: все активные бронирования, пересекающие диапазон дат в зоне услуги
	from := time.Date(req.StartDate.Year(), req.StartDate.Month(), req.StartDate.Day(), 0, 0, 0, 0, loc)
	to := time.Date(req.EndDate.Year(), req.EndDate.Month(), req.EndDate.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	bookings, err := uc.bookingRepo.ListOverlapping(ctx, domain.LedgerFilter{From: from, To: to})
	if err != nil {
		uc.logger.Error("ResolveAvailability: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	fieldMap := make(map[int64]*domain.Field, len(fields))
	for _, field := range fields {
		fieldMap[field.ID] = field
	}
	vehicleMap := make(map[int64]*domain.Vehicle, len(vehicles))
	for _, vehicle := range vehicles {
		vehicleMap[vehicle.ID] = vehicle
	}

	return &availability.Snapshot{
		Service:    service,
		Rules:      rules,
		Staff:      staff,
		StaffRules: staffRules,
		Vehicles:   vehicleMap,
		Fields:     fieldMap,
		Bookings:   bookings,
	}, nil
}

func (uc *UseCase) buildResponse(req *Request, slots []*domain.AvailableSlot) *Response {
	resp := &Response{
		ServiceID: req.ServiceID,
		StartDate: req.StartDate.Format(domain.DateFormat),
		EndDate:   req.EndDate.Format(domain.DateFormat),
		Slots:     make([]Slot, 0, len(slots)),
	}

	for _, slot := range slots {
		resp.Slots = append(resp.Slots, Slot{
			StartAt:                        slot.StartAt,
			EndAt:                          slot.EndAt,
			RemainingCapacity:              slot.RemainingCapacity,
			PricePerPet:                    slot.PricePerPet,
			CapacityMode:                   string(slot.CapacityMode),
			ZeroCapacityReason:             zeroReasonString(slot.ZeroCapacityReason),
			OtherStaffPotentiallyAvailable: slot.OtherStaffPotentiallyAvailable,
			FieldIDs:                       slot.FieldIDs,
		})
	}

	return resp
}

// zeroReasonString причина "none" в ответе опускается
func zeroReasonString(reason domain.ZeroCapacityReason) string {
	if reason == domain.ReasonNone {
		return ""
	}
	return string(reason)
}

// collectFieldIDs объединение field_ids всех правил (без дубликатов)
func collectFieldIDs(rules []*domain.ServiceAvailabilityRule) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, rule := range rules {
		for _, id := range rule.FieldIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// collectVehicleIDs машины по умолчанию всех сотрудников (без дубликатов)
func collectVehicleIDs(staff []*domain.Staff) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, s := range staff {
		if s.DefaultVehicleID == nil {
			continue
		}
		if _, ok := seen[*s.DefaultVehicleID]; ok {
			continue
		}
		seen[*s.DefaultVehicleID] = struct{}{}
		ids = append(ids, *s.DefaultVehicleID)
	}
	return ids
}
