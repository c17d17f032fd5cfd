package availability

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

var ruleColumns = []string{
	"id",
	"organization_id",
	"weekday",
	"open_time",
	"close_time",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил доступности.
// Правила настраивает администратор организации; движок слотов их только читает.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил доступности
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOrganization получает все правила организации (до 7 штук, по дням недели)
func (r *Repository) GetByOrganization(ctx context.Context, organizationID int64) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{"organization_id": organizationID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganization - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganization - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0, 7)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByOrganization - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByOrganization - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetForWeekday получает правило организации на конкретный день недели (0-6, Sunday=0).
// Отсутствие правила - нормальная ситуация (день без приема), возвращается ErrRuleNotFound.
func (r *Repository) GetForWeekday(ctx context.Context, organizationID int64, weekday int) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{"organization_id": organizationID, "weekday": weekday}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForWeekday - scan row: %v", ErrScanRow, err)
	}

	return rule, nil
}

// Upsert создает или обновляет правило для (организация, день недели)
func (r *Repository) Upsert(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_rules").
		Columns(
			"organization_id",
			"weekday",
			"open_time",
			"close_time",
			"active",
		).
		Values(
			rule.OrganizationID,
			rule.Weekday,
			rule.OpenTime,
			rule.CloseTime,
			rule.Active,
		).
		Suffix(`ON CONFLICT (organization_id, weekday) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			active = EXCLUDED.active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	var rule domain.AvailabilityRule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.OrganizationID,
		&rule.Weekday,
		&rule.OpenTime,
		&rule.CloseTime,
		&rule.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
