package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

const table = "appointments"

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"

	idempotencyConstraint = "appointments_idempotency_key"
)

var columns = []string{
	"id",
	"barber_shop_id",
	"station_id",
	"customer_id",
	"customer_name",
	"customer_phone",
	"start_time",
	"end_time",
	"status",
	"idempotency_key",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей (Booking Ledger)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет новую запись.
// Пересечение с живой записью на то же кресло отсекает exclusion constraint в БД,
// такая ошибка переводится в ErrSlotConflict. Повтор ключа идемпотентности - ErrDuplicateIdempotencyKey.
// Исходная ошибка драйвера остаётся в цепочке, чтобы txmanager мог распознать 40001.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"barber_shop_id",
			"station_id",
			"customer_id",
			"customer_name",
			"customer_phone",
			"start_time",
			"end_time",
			"status",
			"idempotency_key",
		).
		Values(
			appt.ID,
			appt.ShopID,
			appt.ChairID,
			appt.CustomerID,
			appt.CustomerName,
			appt.CustomerPhone,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.IdempotencyKey,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return nil, classifyInsertError(err)
	}

	return appt, nil
}

// classifyInsertError переводит нарушения ограничений PostgreSQL в ошибки репозитория
func classifyInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == pgExclusionViolation:
			return fmt.Errorf("%w: Create - %s", ErrSlotConflict, pqErr.Constraint)
		case pqErr.Code == pgUniqueViolation && pqErr.Constraint == idempotencyConstraint:
			return fmt.Errorf("%w: Create - %s", ErrDuplicateIdempotencyKey, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
}

// FindOverlapping возвращает живые (booked) записи кресла, пересекающие [start, end).
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) FindOverlapping(ctx context.Context, chairID uuid.UUID, start, end time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildOverlapQuery(chairID, start, end, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// buildOverlapQuery выбирает booked записи кресла, для которых start_time < end и end_time > start
func buildOverlapQuery(chairID uuid.UUID, start, end time.Time, forUpdate bool) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"station_id": chairID, "status": domain.StatusBooked}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder
}

// ListBooked возвращает занятые интервалы салона, пересекающие [from, to)
func (r *Repository) ListBooked(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]domain.BookedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("station_id", "start_time", "end_time").
		From(table).
		Where(squirrel.Eq{"barber_shop_id": shopID, "status": domain.StatusBooked}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBooked - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBooked - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.BookedInterval, 0)
	for rows.Next() {
		var b domain.BookedInterval
		if err := rows.Scan(&b.ChairID, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("%w: ListBooked - scan row: %v", ErrScanRow, err)
		}
		intervals = append(intervals, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBooked - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// GetByID получает запись по ID. Внутри транзакции строка блокируется.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.getOne(ctx, "GetByID", selectBuilder)
}

// GetByIdempotencyKey получает запись салона по ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, shopID uuid.UUID, key string) (*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"barber_shop_id": shopID, "idempotency_key": key})

	return r.getOne(ctx, "GetByIdempotencyKey", selectBuilder)
}

func (r *Repository) getOne(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %w", ErrScanRow, op, err)
	}

	return appt, nil
}

// List получает записи по фильтру, сначала ближайшие
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildListQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

func buildListQuery(filter domain.AppointmentsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.ShopID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"barber_shop_id": *filter.ShopID})
	}
	if filter.ChairID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"station_id": *filter.ChairID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	return selectBuilder.OrderBy("start_time ASC")
}

// Cancel переводит запись booked -> cancelled.
// Возвращает ErrAppointmentNotFound, если живой записи с таким id нет.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusBooked}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment

	err := row.Scan(
		&appt.ID,
		&appt.ShopID,
		&appt.ChairID,
		&appt.CustomerID,
		&appt.CustomerName,
		&appt.CustomerPhone,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.IdempotencyKey,
		&appt.CancelledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
