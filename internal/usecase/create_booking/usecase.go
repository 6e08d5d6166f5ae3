package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawfield/PF-BookingService/internal/domain"
	rulesRepo "github.com/pawfield/PF-BookingService/internal/infra/storage/rules"
	clientClient "github.com/pawfield/PF-BookingService/internal/integrations/clientservice"
	"github.com/pawfield/PF-BookingService/internal/service/availability"
)

// UseCase use case создания бронирования (Booking Writer)
//
// Единственный писатель журнала бронирований. Проверка вместимости и вставка
// выполняются в одной сериализуемой транзакции с блокировкой пересекающихся
// строк журнала (FOR UPDATE), что исключает oversell при конкурентных запросах.
type UseCase struct {
	bookingRepo  BookingRepository
	rulesRepo    RulesRepository
	clientClient ClientServiceClient
	txManager    TransactionManager
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rulesRepo RulesRepository,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rulesRepo:    rulesRepo,
		clientClient: clientClient,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, service=%d, date=%s, window=%s-%s, pets=%d",
		req.ClientID, req.ServiceID, req.Date.Format(domain.DateFormat),
		req.StartTime, req.EndTime, len(req.PetIDs))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.rulesRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	if service.RequiresFieldSelection && len(req.FieldIDs) == 0 {
		uc.logger.Warn("CreateBooking: field selection required for service id=%d", req.ServiceID)
		return nil, ErrFieldSelectionRequired
	}

	loc, err := service.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: invalid timezone %q for service id=%d: %v",
			service.Timezone, service.ID, err)
		return nil, fmt.Errorf("%w: invalid service timezone: %v", ErrInternal, err)
	}

	// 3. Абсолютное окно слота в зоне услуги
	startAt, err := req.StartTime.On(req.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	endAt, err := req.EndTime.On(req.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	// 4. Ищем правило, покрывающее запрошенное окно
	rules, err := uc.rulesRepo.ListActiveRulesByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list rules for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to list availability rules: %v", ErrInternal, err)
	}

	rule := matchRule(rules, req)
	if rule == nil {
		uc.logger.Warn("CreateBooking: no rule matches service=%d, date=%s, window=%s-%s",
			req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
		return nil, ErrSlotNotBookable
	}

	if rule.CapacityMode == domain.CapacityModeField && len(req.FieldIDs) == 0 && len(rule.FieldIDs) == 0 {
		return nil, ErrFieldSelectionRequired
	}

	// 5. Клиент и принадлежность питомцев
	profile, err := uc.clientClient.GetClient(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clientClient.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	pets, err := uc.clientClient.ListPets(ctx, req.ClientID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list pets for client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to list pets: %v", ErrInternal, err)
	}

	owned := make(map[int64]struct{}, len(pets))
	for _, pet := range pets {
		owned[pet.ID] = struct{}{}
	}
	if err := validatePetsOwned(req.PetIDs, owned); err != nil {
		uc.logger.Warn("CreateBooking: pet ownership check failed for client id=%d: %v", req.ClientID, err)
		return nil, err
	}

	// 6. Сотрудник для staff/vehicle-режима: явный выбор, иначе предпочитаемый
	// сотрудник клиента; если и его нет, сотрудника подбирает движок внутри
	// транзакции - бронирование всегда закрепляется за конкретным сотрудником
	var assignedStaffID *int64
	if rule.CapacityMode == domain.CapacityModeStaffVehicle {
		assignedStaffID = req.AssignedStaffID
		if assignedStaffID == nil {
			assignedStaffID = profile.DefaultStaffID
		}
	}

	// 7. Площадки бронирования: выбор клиента, иначе все площадки правила
	bookingFields := req.FieldIDs
	if len(bookingFields) == 0 {
		bookingFields = rule.FieldIDs
	}

	// 8. Справочные данные для расчёта вместимости (read-only, вне транзакции)
	refs, err := uc.loadReferenceData(ctx, rule)
	if err != nil {
		return nil, err
	}

	candidate := availability.Candidate{
		Rule:      rule,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		StartAt:   startAt,
		EndAt:     endAt,
		FieldIDs:  bookingFields,
	}

	var result *domain.Booking

	// 9. Проверка вместимости и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Пересекающиеся бронирования с блокировкой строк (FOR UPDATE)
		filter := domain.LedgerFilter{From: startAt, To: endAt}
		if rule.CapacityMode == domain.CapacityModeField {
			filter.FieldIDs = bookingFields
		} else if assignedStaffID != nil {
			filter.StaffID = assignedStaffID
		}

		bookings, err := uc.bookingRepo.ListOverlapping(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to list overlapping bookings: %v", ErrInternal, err)
		}

		// 9.2. Остаток вместимости на момент фиксации
		snap := &availability.Snapshot{
			Service:    service,
			Rules:      rules,
			Staff:      refs.staff,
			StaffRules: refs.staffRules,
			Vehicles:   refs.vehicles,
			Fields:     refs.fields,
			Bookings:   bookings,
		}

		// Локальная копия: при авто-подборе каждый повтор транзакции выбирает
		// сотрудника заново по актуальному состоянию журнала
		staffID := assignedStaffID
		if rule.CapacityMode == domain.CapacityModeStaffVehicle && staffID == nil {
			picked, reason := availability.AutoAssignStaff(snap, candidate, len(req.PetIDs))
			if picked == nil {
				uc.logger.Warn("CreateBooking: no staff can take %d pets for service=%d window=%s-%s: %s",
					len(req.PetIDs), req.ServiceID, req.StartTime, req.EndTime, reason)
				if uc.metrics != nil {
					uc.metrics.IncCapacityRejection(string(rule.CapacityMode))
				}
				if reason == domain.ReasonNoStaff {
					return ErrNoStaffAvailable
				}
				return fmt.Errorf("%w: no staff with free capacity for %d pets",
					ErrInsufficientCapacity, len(req.PetIDs))
			}
			staffID = picked
		}

		var sctx *availability.StaffContext
		if staffID != nil {
			sctx = &availability.StaffContext{DefaultStaffID: staffID}
		}

		resolved := availability.ResolveCandidate(snap, candidate, sctx)

		if err := checkCapacity(resolved, len(req.PetIDs)); err != nil {
			uc.logger.Warn("CreateBooking: capacity check failed for service=%d window=%s-%s: %v",
				req.ServiceID, req.StartTime, req.EndTime, err)
			if uc.metrics != nil {
				uc.metrics.IncCapacityRejection(string(rule.CapacityMode))
			}
			return err
		}

		// 9.3. Фиксируем бронирование: строка журнала и питомцы атомарно
		booking := &domain.Booking{
			Reference:       uuid.NewString(),
			ClientID:        req.ClientID,
			ServiceID:       req.ServiceID,
			FieldIDs:        bookingFields,
			StartAt:         startAt,
			EndAt:           endAt,
			AssignedStaffID: staffID,
			PetIDs:          req.PetIDs,
			Status:          domain.StatusCommitted,
			PricePerPet:     resolved.PricePerPet,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d reference=%s", result.ID, result.Reference)

	return toResponse(result), nil
}

// checkCapacity проверяет, что остаток покрывает запрошенных питомцев
// nil остаток = безлимит, проверка всегда проходит
func checkCapacity(resolved availability.ResolvedSlot, petCount int) error {
	if resolved.RemainingCapacity == nil {
		return nil
	}

	if *resolved.RemainingCapacity >= petCount {
		return nil
	}

	if resolved.Reason == domain.ReasonNoStaff {
		return ErrNoStaffAvailable
	}
	return fmt.Errorf("%w: remaining=%d, requested=%d",
		ErrInsufficientCapacity, *resolved.RemainingCapacity, petCount)
}

// referenceData справочные данные для расчёта вместимости
type referenceData struct {
	staff      []*domain.Staff
	staffRules []*domain.StaffAvailabilityRule
	fields     map[int64]*domain.Field
	vehicles   map[int64]*domain.Vehicle
}

// loadReferenceData загружает справочники, нужные режиму вместимости правила
func (uc *UseCase) loadReferenceData(ctx context.Context, rule *domain.ServiceAvailabilityRule) (*referenceData, error) {
	refs := &referenceData{
		fields:   make(map[int64]*domain.Field),
		vehicles: make(map[int64]*domain.Vehicle),
	}

	fields, err := uc.rulesRepo.ListFieldsByIDs(ctx, rule.FieldIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list fields: %v", err)
		return nil, fmt.Errorf("%w: failed to list fields: %v", ErrInternal, err)
	}
	for _, field := range fields {
		refs.fields[field.ID] = field
	}

	if rule.CapacityMode != domain.CapacityModeStaffVehicle {
		return refs, nil
	}

	refs.staff, err = uc.rulesRepo.ListStaff(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	refs.staffRules, err = uc.rulesRepo.ListStaffRules(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list staff rules: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff rules: %v", ErrInternal, err)
	}

	vehicleIDs := make([]int64, 0, len(refs.staff))
	for _, s := range refs.staff {
		if s.DefaultVehicleID != nil {
			vehicleIDs = append(vehicleIDs, *s.DefaultVehicleID)
		}
	}
	vehicles, err := uc.rulesRepo.ListVehiclesByIDs(ctx, vehicleIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list vehicles: %v", err)
		return nil, fmt.Errorf("%w: failed to list vehicles: %v", ErrInternal, err)
	}
	for _, vehicle := range vehicles {
		refs.vehicles[vehicle.ID] = vehicle
	}

	return refs, nil
}

func toResponse(booking *domain.Booking) *Response {
	return &Response{
		ID:              booking.ID,
		Reference:       booking.Reference,
		ClientID:        booking.ClientID,
		ServiceID:       booking.ServiceID,
		FieldIDs:        booking.FieldIDs,
		StartAt:         booking.StartAt,
		EndAt:           booking.EndAt,
		AssignedStaffID: booking.AssignedStaffID,
		PetIDs:          booking.PetIDs,
		Status:          string(booking.Status),
		PricePerPet:     booking.PricePerPet,
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}
