package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/pkg/dbmetrics"
	"github.com/evtikhov/BMA-SchedulingService/pkg/psqlbuilder"
)

var settingsColumns = []string{
	"id",
	"organization_id",
	"buffer_minutes",
	"min_booking_notice_minutes",
	"advance_booking_days",
	"requires_confirmation",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек планирования организаций
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOrganization получает настройки планирования организации.
// Отсутствие строки - нормальная ситуация, вызывающий применяет дефолты.
func (r *Repository) GetByOrganization(ctx context.Context, organizationID int64) (*domain.SchedulingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("scheduling_settings").
		Where(squirrel.Eq{"organization_id": organizationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganization - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.SchedulingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.OrganizationID,
		&s.BufferMinutes,
		&s.MinBookingNoticeMinutes,
		&s.AdvanceBookingDays,
		&s.RequiresConfirmation,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganization - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или обновляет настройки организации
func (r *Repository) Upsert(ctx context.Context, s *domain.SchedulingSettings) (*domain.SchedulingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("scheduling_settings").
		Columns(
			"organization_id",
			"buffer_minutes",
			"min_booking_notice_minutes",
			"advance_booking_days",
			"requires_confirmation",
		).
		Values(
			s.OrganizationID,
			s.BufferMinutes,
			s.MinBookingNoticeMinutes,
			s.AdvanceBookingDays,
			s.RequiresConfirmation,
		).
		Suffix(`ON CONFLICT (organization_id) DO UPDATE SET
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			requires_confirmation = EXCLUDED.requires_confirmation,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
