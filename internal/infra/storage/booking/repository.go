package booking

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

// petIDsColumn подзапрос, собирающий питомцев бронирования в массив
const petIDsColumn = "(SELECT COALESCE(array_agg(bp.pet_id ORDER BY bp.pet_id), '{}') " +
	"FROM booking_pets bp WHERE bp.booking_id = bookings.id) AS pet_ids"

// Repository репозиторий журнала бронирований
// Журнал - единственная долговременная запись потреблённой вместимости;
// пишет в него только Booking Writer (usecase create_booking).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе со связками питомцев
//
// Строка bookings и строки booking_pets - единое атомарное целое, поэтому
// метод ДОЛЖЕН вызываться внутри транзакции (executor из context).
// Usecase create_booking оборачивает проверку вместимости и вставку
// в сериализуемую транзакцию, что исключает oversell при конкурентных запросах.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if len(booking.PetIDs) == 0 {
		return nil, ErrNoPets
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference",
			"client_id",
			"service_id",
			"field_ids",
			"start_at",
			"end_at",
			"assigned_staff_id",
			"status",
			"price_per_pet",
			"notes",
		).
		Values(
			booking.Reference,
			booking.ClientID,
			booking.ServiceID,
			pq.Array(booking.FieldIDs),
			booking.StartAt,
			booking.EndAt,
			booking.AssignedStaffID,
			booking.Status,
			booking.PricePerPet,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	// Связки питомцев - в той же транзакции
	petsBuilder := psqlbuilder.Insert("booking_pets").Columns("booking_id", "pet_id")
	for _, petID := range booking.PetIDs {
		petsBuilder = petsBuilder.Values(booking.ID, petID)
	}

	query, args, err = petsBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build pets insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute pets insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByClient получает бронирования клиента, опционально фильтруя по статусу
func (r *Repository) ListByClient(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListOverlapping получает активные бронирования, пересекающиеся с окном [From, To)
//
// Опционально сужает выборку по пересечению набора площадок (field_ids &&)
// или по назначенному сотруднику - по ограничивающему ресурсу слота.
//
// Внутри транзакции строки блокируются FOR UPDATE: конкурентные Booking Writer'ы,
// целящиеся в тот же ресурс и окно, сериализуются и не могут вместе
// переподтвердить одну и ту же вместимость.
func (r *Repository) ListOverlapping(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().
		Where(squirrel.Lt{"start_at": filter.To}).
		Where(squirrel.Gt{"end_at": filter.From}).
		Where(squirrel.Eq{"status": domain.StatusCommitted}).
		OrderBy("start_at ASC, id ASC")

	if len(filter.FieldIDs) > 0 {
		selectBuilder = selectBuilder.Where("field_ids && ?", pq.Array(filter.FieldIDs))
	}
	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"assigned_staff_id": *filter.StaffID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *Repository) selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"reference",
		"client_id",
		"service_id",
		"field_ids",
		"start_at",
		"end_at",
		"assigned_staff_id",
		"status",
		"price_per_pet",
		"notes",
		"created_at",
		"updated_at",
		petIDsColumn,
	).From("bookings")
}

// scanBooking сканирует одну строку результата в бронирование
func scanBooking(scan func(dest ...interface{}) error) (*domain.Booking, error) {
	var booking domain.Booking
	var fieldIDs, petIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&booking.ID,
		&booking.Reference,
		&booking.ClientID,
		&booking.ServiceID,
		&fieldIDs,
		&booking.StartAt,
		&booking.EndAt,
		&booking.AssignedStaffID,
		&booking.Status,
		&booking.PricePerPet,
		&booking.Notes,
		&createdAt,
		&updatedAt,
		&petIDs,
	)
	if err != nil {
		return nil, err
	}

	booking.FieldIDs = []int64(fieldIDs)
	booking.PetIDs = []int64(petIDs)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
