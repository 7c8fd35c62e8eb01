package court

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации кортов (только чтение на пути бронирования)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корт с расписанием, переопределениями и blackout-датами
// Конфигурация проверяется при загрузке: невалидная запись возвращает ErrDecodeConfig
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"venue_id",
		"name",
		"availability",
		"availability_overrides",
		"blackout_dates",
		"booking_duration_minutes",
		"hourly_rate",
		"created_at",
		"updated_at",
	).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	var availability, overrides []byte
	var blackout pq.StringArray
	var duration sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.VenueID,
		&court.Name,
		&availability,
		&overrides,
		&blackout,
		&duration,
		&court.HourlyRate,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %w", ErrScanRow, err)
	}

	if err := decodeSchedule(&court, availability, overrides); err != nil {
		return nil, fmt.Errorf("%w: court id=%d: %v", ErrDecodeConfig, id, err)
	}

	court.BlackoutDates = []string(blackout)
	court.BookingDurationMinutes = int(duration.Int64)
	court.CreatedAt = createdAt.Time.UTC()
	court.UpdatedAt = updatedAt.Time.UTC()

	if err := court.Validate(); err != nil {
		return nil, fmt.Errorf("%w: court id=%d: %w", ErrDecodeConfig, id, err)
	}

	return &court, nil
}

// decodeSchedule разбирает JSONB-колонки расписания
// availability: {"mon": {"open": "09:00", "close": "22:00"}, ...}
// availability_overrides: {"2025-06-16": {"open": "12:00", "close": "18:00"}}
func decodeSchedule(court *domain.Court, availability, overrides []byte) error {
	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &court.Availability); err != nil {
			return fmt.Errorf("availability: %w", err)
		}
	}

	court.AvailabilityOverrides = make(map[string]domain.OperatingHours)
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &court.AvailabilityOverrides); err != nil {
			return fmt.Errorf("availability_overrides: %w", err)
		}
	}

	return nil
}
