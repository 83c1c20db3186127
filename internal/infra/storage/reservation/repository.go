package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dberrors"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/sqlbuilder"
)

const tableName = "reservations"

var columns = []string{
	"id",
	"confirmation_code",
	"resource_id",
	"reservation_date",
	"start_time",
	"end_time",
	"status",
	"total_price",
	"customer_name",
	"customer_email",
	"customer_phone",
	"guests",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db  DBExecutor
	qb  sqlbuilder.Builder
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория бронирований
// loc часовой пояс, в котором интерпретируются календарные даты
func NewRepository(db DBExecutor, qb sqlbuilder.Builder, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, qb: qb, loc: loc}
}

// Create сохраняет новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Уникальный индекс (resource_id, reservation_date, start_time) для подтверждённых
// бронирований превращается в ErrSlotTaken
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now

	query, args, err := r.qb.Insert(tableName).
		Columns(columns...).
		Values(
			res.ID,
			res.ConfirmationCode,
			res.ResourceID,
			res.Date.Format(domain.DateFormat),
			res.StartTime.String(),
			res.EndTime.String(),
			string(res.Status),
			res.TotalPrice,
			res.Customer.Name,
			res.Customer.Email,
			res.Customer.Phone,
			res.Guests,
			res.Notes,
			res.CancelledAt,
			res.CreatedAt,
			res.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			if strings.Contains(err.Error(), "confirmation_code") {
				return nil, fmt.Errorf("%w: Create - code=%s", ErrDuplicateConfirmationCode, res.ConfirmationCode)
			}
			return nil, fmt.Errorf("%w: Create - resource=%s date=%s start=%s",
				ErrSlotTaken, res.ResourceID, res.Date.Format(domain.DateFormat), res.StartTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByConfirmationCode получает бронирование по коду подтверждения
func (r *Repository) GetByConfirmationCode(ctx context.Context, code string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByConfirmationCode", squirrel.Eq{"confirmation_code": code})
}

// GetByFilter получает бронирования с фильтрацией по ресурсу, email и периоду
// Сортировка: дата, затем время начала (ASC)
func (r *Repository) GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(columns...).From(tableName)

	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *filter.ResourceID})
	}
	if filter.Email != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_email": strings.ToLower(*filter.Email)})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": filter.To.Format(domain.DateFormat)})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	query, args, err := selectBuilder.
		OrderBy("reservation_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetConfirmedByResourceAndDate получает подтверждённые бронирования ресурса на дату
// Внутри транзакции (PostgreSQL) строки блокируются FOR UPDATE
func (r *Repository) GetConfirmedByResourceAndDate(ctx context.Context, resourceID string, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"resource_id":      resourceID,
			"reservation_date": date.Format(domain.DateFormat),
			"status":           string(domain.StatusConfirmed),
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) && r.qb.SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedByResourceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedByResourceAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// LockResourceDay берёт транзакционную advisory-блокировку на пару (ресурс, дата)
// Работает только внутри транзакции PostgreSQL; в SQLite запись и так сериализуется
// через BEGIN IMMEDIATE, поэтому там это no-op
func (r *Repository) LockResourceDay(ctx context.Context, resourceID string, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) || !r.qb.SupportsAdvisoryLocks() {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := resourceID + "|" + date.Format(domain.DateFormat)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: LockResourceDay - key=%s: %w", ErrExecQuery, key, err)
	}
	return nil
}

// CancelIfConfirmed атомарно переводит confirmed -> cancelled (compare-and-set)
// Возвращает false, если строка не найдена или уже не в статусе confirmed
func (r *Repository) CancelIfConfirmed(ctx context.Context, id string, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	at = at.UTC()
	query, args, err := r.qb.Update(tableName).
		Set("status", string(domain.StatusCancelled)).
		Set("cancelled_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": string(domain.StatusConfirmed)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfConfirmed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfConfirmed - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfConfirmed - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
	}

	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res         domain.Reservation
		date        string
		status      string
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.ConfirmationCode,
		&res.ResourceID,
		&date,
		&res.StartTime,
		&res.EndTime,
		&status,
		&res.TotalPrice,
		&res.Customer.Name,
		&res.Customer.Email,
		&res.Customer.Phone,
		&res.Guests,
		&res.Notes,
		&cancelledAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Date, err = time.ParseInLocation(domain.DateFormat, date, r.loc)
	if err != nil {
		return nil, fmt.Errorf("parse reservation_date %q: %w", date, err)
	}
	res.Status = domain.ReservationStatus(status)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := r.scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}
