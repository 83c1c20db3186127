package resource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

const (
	resourcesTable    = "resources"
	blockedSlotsTable = "resource_blocked_slots"
)

var columns = []string{
	"id",
	"name",
	"sport",
	"capacity",
	"hourly_rate",
	"amenities",
	"description",
	"available",
	"open_time",
	"close_time",
	"slot_duration_minutes",
	"available_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий ресурсов (кортов) и их расписаний
type Repository struct {
	db DBExecutor
	qb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor, qb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// GetByID получает ресурс вместе с заблокированными слотами
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(columns...).
		From(resourcesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %w", ErrScanRow, err)
	}

	blocked, err := r.loadBlocked(ctx, []string{res.ID})
	if err != nil {
		return nil, err
	}
	res.Schedule.Blocked = blocked[res.ID]
	if res.Schedule.Blocked == nil {
		res.Schedule.Blocked = domain.BlockedSlots{}
	}

	return res, nil
}

// List получает ресурсы с фильтрацией по виду спорта и доступности
// Сортировка по имени
func (r *Repository) List(ctx context.Context, filter domain.ResourcesFilter) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.qb.Select(columns...).From(resourcesTable)
	if filter.Sport != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sport": string(*filter.Sport)})
	}
	if filter.Available != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"available": *filter.Available})
	}

	query, args, err := selectBuilder.OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	ids := make([]string, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		resources = append(resources, res)
		ids = append(ids, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return resources, nil
	}

	blocked, err := r.loadBlocked(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, res := range resources {
		res.Schedule.Blocked = blocked[res.ID]
		if res.Schedule.Blocked == nil {
			res.Schedule.Blocked = domain.BlockedSlots{}
		}
	}

	return resources, nil
}

// UpdateSchedule перезаписывает расписание ресурса, включая набор заблокированных слотов
// Состоит из нескольких запросов, поэтому вызывается внутри транзакции
func (r *Repository) UpdateSchedule(ctx context.Context, id string, schedule domain.Schedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update(resourcesTable).
		Set("open_time", schedule.OpenTime.String()).
		Set("close_time", schedule.CloseTime.String()).
		Set("slot_duration_minutes", schedule.SlotDurationMinutes).
		Set("available_days", encodeWeekdays(schedule.AvailableDays)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrResourceNotFound
	}

	return r.replaceBlocked(ctx, id, schedule.Blocked)
}

// Upsert создаёт ресурс или обновляет существующий по ID
// Дата создания существующего ресурса не меняется
func (r *Repository) Upsert(ctx context.Context, res *domain.Resource) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	amenities := res.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, err := json.Marshal(amenities)
	if err != nil {
		return fmt.Errorf("%w: Upsert - amenities: %v", ErrEncodeField, err)
	}

	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	query, args, err := r.qb.Insert(resourcesTable).
		Columns(columns...).
		Values(
			res.ID,
			res.Name,
			string(res.Sport),
			res.Capacity,
			res.HourlyRate,
			string(amenitiesJSON),
			res.Description,
			res.Available,
			res.Schedule.OpenTime.String(),
			res.Schedule.CloseTime.String(),
			res.Schedule.SlotDurationMinutes,
			encodeWeekdays(res.Schedule.AvailableDays),
			res.CreatedAt,
			res.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			sport = excluded.sport,
			capacity = excluded.capacity,
			hourly_rate = excluded.hourly_rate,
			amenities = excluded.amenities,
			description = excluded.description,
			available = excluded.available,
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			slot_duration_minutes = excluded.slot_duration_minutes,
			available_days = excluded.available_days,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return r.replaceBlocked(ctx, res.ID, res.Schedule.Blocked)
}

// MarkUnavailableExcept выключает все ресурсы, ID которых нет в списке
// Возвращает количество выключенных ресурсов
func (r *Repository) MarkUnavailableExcept(ctx context.Context, ids []string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := r.qb.Update(resourcesTable).
		Set("available", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"available": true})
	if len(ids) > 0 {
		updateBuilder = updateBuilder.Where(squirrel.NotEq{"id": ids})
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkUnavailableExcept - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkUnavailableExcept - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkUnavailableExcept - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) replaceBlocked(ctx context.Context, resourceID string, blocked domain.BlockedSlots) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Delete(blockedSlotsTable).
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceBlocked - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceBlocked - execute delete: %w", ErrExecQuery, err)
	}

	if blocked.Len() == 0 {
		return nil
	}

	insertBuilder := r.qb.Insert(blockedSlotsTable).Columns("resource_id", "weekday", "slot_time")
	for _, slot := range blocked.List() {
		insertBuilder = insertBuilder.Values(resourceID, int(slot.Weekday), slot.Time.String())
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceBlocked - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceBlocked - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) loadBlocked(ctx context.Context, ids []string) (map[string]domain.BlockedSlots, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("resource_id", "weekday", "slot_time").
		From(blockedSlotsTable).
		Where(squirrel.Eq{"resource_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadBlocked - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadBlocked - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string]domain.BlockedSlots, len(ids))
	for rows.Next() {
		var (
			resourceID string
			weekday    int
			slotTime   types.TimeString
		)
		if err := rows.Scan(&resourceID, &weekday, &slotTime); err != nil {
			return nil, fmt.Errorf("%w: loadBlocked - scan row: %w", ErrScanRow, err)
		}
		blocked, ok := result[resourceID]
		if !ok {
			blocked = domain.BlockedSlots{}
			result[resourceID] = blocked
		}
		blocked.Add(time.Weekday(weekday), slotTime)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadBlocked - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var (
		res           domain.Resource
		sport         string
		amenitiesJSON string
		availableDays string
	)

	err := row.Scan(
		&res.ID,
		&res.Name,
		&sport,
		&res.Capacity,
		&res.HourlyRate,
		&amenitiesJSON,
		&res.Description,
		&res.Available,
		&res.Schedule.OpenTime,
		&res.Schedule.CloseTime,
		&res.Schedule.SlotDurationMinutes,
		&availableDays,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Sport = domain.Sport(sport)
	res.Amenities = []string{}
	if amenitiesJSON != "" {
		if err := json.Unmarshal([]byte(amenitiesJSON), &res.Amenities); err != nil {
			return nil, fmt.Errorf("decode amenities: %w", err)
		}
	}
	res.Schedule.AvailableDays, err = decodeWeekdays(availableDays)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// encodeWeekdays хранит дни недели строкой "1,2,3"
func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []time.Weekday{}, nil
	}

	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < int(time.Sunday) || n > int(time.Saturday) {
			return nil, fmt.Errorf("decode available_days %q: invalid weekday %q", s, p)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
