package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

// SQLSTATE 23P01 exclusion_violation
const codeExclusionViolation pq.ErrorCode = "23P01"

var bookingColumns = []string{
	"id",
	"court_id",
	"user_id",
	"start_time",
	"end_time",
	"status",
	"total_price",
	"cancellation_reason",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
//
// Пересечение с активным бронированием того же корта отсекается exclusion constraint
// и возвращается как ErrSlotConflict: это страховка на случай, если проверка
// пересечений в транзакции была пропущена или проиграла гонку.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"court_id",
			"user_id",
			"start_time",
			"end_time",
			"status",
			"total_price",
		).
		Values(
			booking.CourtID,
			booking.UserID,
			booking.StartTime.UTC(),
			booking.EndTime.UTC(),
			string(booking.Status),
			booking.TotalPrice,
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
		if isExclusionViolation(err) {
			return nil, fmt.Errorf("%w: court=%d %s-%s", ErrSlotConflict, booking.CourtID,
				booking.StartTime.Format(time.RFC3339), booking.EndTime.Format(time.RFC3339))
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time.UTC()
	booking.UpdatedAt = updatedAt.Time.UTC()

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
// Вне транзакции работает как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, lock bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// FindOverlapping возвращает активные бронирования корта, пересекающие [start, end)
// Условие пересечения: existing.start < end AND existing.end > start.
// Внутри транзакции найденные строки блокируются (FOR UPDATE).
func (r *Repository) FindOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := overlappingQuery(courtID, start, end, excludeID, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// overlappingQuery активные бронирования корта, пересекающие [start, end)
// lock добавляет FOR UPDATE (только внутри транзакции)
func overlappingQuery(courtID int64, start, end time.Time, excludeID *int64, lock bool) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		Where(squirrel.Lt{"start_time": end.UTC()}).
		Where(squirrel.Gt{"end_time": start.UTC()}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if lock {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByCourtWithFilter получает бронирования корта с фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (From, To): бронирования, пересекающие [From, To)
// - Статусу (Status)
// - Включению отменённых бронирований (IncludeCancelled)
//
// Примеры использования:
//
// 1. Активные бронирования корта на дату:
//
//	from := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
//	to := from.AddDate(0, 0, 1)
//	filter := domain.CourtBookingsFilter{CourtID: 7, From: &from, To: &to}
//
// 2. Только подтвержденные бронирования:
//
//	status := domain.StatusConfirmed
//	filter := domain.CourtBookingsFilter{CourtID: 7, Status: &status}
func (r *Repository) GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := courtBookingsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// courtBookingsQuery бронирования корта по фильтру; период - пересечение с [From, To)
func courtBookingsQuery(filter domain.CourtBookingsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"court_id": filter.CourtID}).
		OrderBy("start_time ASC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.To.UTC()})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	return selectBuilder
}

// StatusUpdate параметры CAS-перехода статуса
type StatusUpdate struct {
	ID     int64
	To     domain.BookingStatus
	From   []domain.BookingStatus // обновление применяется, только если текущий статус в From
	Reason *string                // причина отмены
	At     time.Time              // момент перехода (cancelled_at / completed_at)
}

// UpdateStatus атомарно переводит бронирование в новый статус
// UPDATE ... WHERE id = ? AND status IN (From) RETURNING ...
// Если строка не обновилась: ErrBookingNotFound, если бронирования нет, иначе ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, upd StatusUpdate) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := domain.ParseBookingStatus(string(upd.To)); err != nil || len(upd.From) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, upd.To)
	}

	at := upd.At.UTC()
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", string(upd.To)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": upd.ID}).
		Where(squirrel.Eq{"status": statusStrings(upd.From)})

	switch upd.To {
	case domain.StatusCancelled:
		updateBuilder = updateBuilder.
			Set("cancelled_at", at).
			Set("cancellation_reason", upd.Reason)
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("completed_at", at)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, upd.ID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// UpdateInterval переносит бронирование на новый интервал с пересчитанной стоимостью
func (r *Repository) UpdateInterval(ctx context.Context, id int64, start, end time.Time, price decimal.Decimal) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_time", start.UTC()).
		Set("end_time", end.UTC()).
		Set("total_price", price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateInterval - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		if isExclusionViolation(err) {
			return nil, fmt.Errorf("%w: booking id=%d", ErrSlotConflict, id)
		}
		return nil, fmt.Errorf("%w: UpdateInterval - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// CompleteFinished переводит в completed все подтверждённые бронирования, закончившиеся к now
// Возвращает обновлённые бронирования
func (r *Repository) CompleteFinished(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	at := now.UTC()
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusCompleted)).
		Set("completed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"status": statusStrings(domain.SourcesFor(domain.StatusCompleted))}).
		Where(squirrel.LtOrEq{"end_time": at}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CompleteFinished - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CompleteFinished - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountByUserAndStatus возвращает количество бронирований пользователя по статусам
func (r *Repository) CountByUserAndStatus(ctx context.Context, userID int64) (map[domain.BookingStatus]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountByUserAndStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByUserAndStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByUserAndStatus - scan row: %v", ErrScanRow, err)
		}
		counts[domain.BookingStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByUserAndStatus - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку с колонками bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var status string
	var reason sql.NullString
	var cancelledAt, completedAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CourtID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&status,
		&booking.TotalPrice,
		&reason,
		&cancelledAt,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.StartTime = booking.StartTime.UTC()
	booking.EndTime = booking.EndTime.UTC()
	booking.CancellationReason = nullString(reason)
	booking.CancelledAt = nullTime(cancelledAt)
	booking.CompletedAt = nullTime(completedAt)
	booking.CreatedAt = createdAt.Time.UTC()
	booking.UpdatedAt = updatedAt.Time.UTC()

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeExclusionViolation
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
