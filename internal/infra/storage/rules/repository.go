package rules

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/pawfield/PF-BookingService/internal/domain"
	"github.com/pawfield/PF-BookingService/pkg/dbmetrics"
	"github.com/pawfield/PF-BookingService/pkg/psqlbuilder"
)

// Repository read-only хранилище правил и справочных данных
// (услуги, правила доступности, сотрудники, машины, площадки)
// Правила создаются и редактируются администраторами вне этого сервиса;
// движок доступности их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"service_type",
		"default_price",
		"requires_field_selection",
		"timezone",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.ServiceType,
		&service.DefaultPrice,
		&service.RequiresFieldSelection,
		&service.Timezone,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// ListActiveRulesByService получает активные правила доступности услуги
func (r *Repository) ListActiveRulesByService(ctx context.Context, serviceID int64) ([]*domain.ServiceAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"service_id",
		"field_ids",
		"start_time",
		"end_time",
		"days_of_week",
		"specific_date",
		"capacity_mode",
		"override_capacity",
		"override_price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("service_availability_rules").
		Where(squirrel.Eq{"service_id": serviceID, "is_active": true}).
		OrderBy("start_time ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveRulesByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveRulesByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rulesList := make([]*domain.ServiceAvailabilityRule, 0)
	for rows.Next() {
		var rule domain.ServiceAvailabilityRule
		var fieldIDs pq.Int64Array
		var daysOfWeek pq.Int64Array
		var specificDate sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.ServiceID,
			&fieldIDs,
			&rule.StartTime,
			&rule.EndTime,
			&daysOfWeek,
			&specificDate,
			&rule.CapacityMode,
			&rule.OverrideCapacity,
			&rule.OverridePrice,
			&rule.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveRulesByService - scan rule: %v", ErrScanRow, err)
		}

		rule.FieldIDs = []int64(fieldIDs)
		rule.DaysOfWeek = toIntSlice(daysOfWeek)
		if specificDate.Valid {
			date := specificDate.Time
			rule.SpecificDate = &date
		}
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rulesList = append(rulesList, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveRulesByService - rows error: %v", ErrScanRow, err)
	}

	return rulesList, nil
}

// ListStaff получает всех активных сотрудников
func (r *Repository) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"default_vehicle_id",
		"is_active",
	).
		From("staff").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		var staff domain.Staff
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.DefaultVehicleID, &staff.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListStaff - scan staff: %v", ErrScanRow, err)
		}
		staffList = append(staffList, &staff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaff - rows error: %v", ErrScanRow, err)
	}

	return staffList, nil
}

// ListStaffRules получает все правила доступности сотрудников
func (r *Repository) ListStaffRules(ctx context.Context) ([]*domain.StaffAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"start_time",
		"end_time",
		"days_of_week",
		"specific_date",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("staff_availability_rules").
		OrderBy("staff_id ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rulesList := make([]*domain.StaffAvailabilityRule, 0)
	for rows.Next() {
		var rule domain.StaffAvailabilityRule
		var daysOfWeek pq.Int64Array
		var specificDate sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.StaffID,
			&rule.StartTime,
			&rule.EndTime,
			&daysOfWeek,
			&specificDate,
			&rule.IsAvailable,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStaffRules - scan rule: %v", ErrScanRow, err)
		}

		rule.DaysOfWeek = toIntSlice(daysOfWeek)
		if specificDate.Valid {
			date := specificDate.Time
			rule.SpecificDate = &date
		}
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rulesList = append(rulesList, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffRules - rows error: %v", ErrScanRow, err)
	}

	return rulesList, nil
}

// ListFieldsByIDs получает площадки по набору ID
func (r *Repository) ListFieldsByIDs(ctx context.Context, ids []int64) ([]*domain.Field, error) {
	if len(ids) == 0 {
		return []*domain.Field{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"capacity",
		"is_active",
	).
		From("fields").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFieldsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFieldsByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	fieldsList := make([]*domain.Field, 0, len(ids))
	for rows.Next() {
		var field domain.Field
		if err := rows.Scan(&field.ID, &field.Name, &field.Capacity, &field.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListFieldsByIDs - scan field: %v", ErrScanRow, err)
		}
		fieldsList = append(fieldsList, &field)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListFieldsByIDs - rows error: %v", ErrScanRow, err)
	}

	return fieldsList, nil
}

// ListVehiclesByIDs получает машины по набору ID
func (r *Repository) ListVehiclesByIDs(ctx context.Context, ids []int64) ([]*domain.Vehicle, error) {
	if len(ids) == 0 {
		return []*domain.Vehicle{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"pet_capacity",
	).
		From("vehicles").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListVehiclesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVehiclesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	vehiclesList := make([]*domain.Vehicle, 0, len(ids))
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.PetCapacity); err != nil {
			return nil, fmt.Errorf("%w: ListVehiclesByIDs - scan vehicle: %v", ErrScanRow, err)
		}
		vehiclesList = append(vehiclesList, &vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListVehiclesByIDs - rows error: %v", ErrScanRow, err)
	}

	return vehiclesList, nil
}

// toIntSlice конвертирует int64-массив из БД в []int (дни недели)
func toIntSlice(arr pq.Int64Array) []int {
	if len(arr) == 0 {
		return nil
	}
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	return out
}
