package schedule

import (
	"context"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
)

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	GetByOrganization(ctx context.Context, organizationID int64) ([]*domain.AvailabilityRule, error)
	Upsert(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
}

// SettingsRepository интерфейс репозитория настроек планирования
type SettingsRepository interface {
	GetByOrganization(ctx context.Context, organizationID int64) (*domain.SchedulingSettings, error)
	Upsert(ctx context.Context, s *domain.SchedulingSettings) (*domain.SchedulingSettings, error)
}

// DirectoryClient интерфейс клиента справочного сервиса
type DirectoryClient interface {
	GetOrganization(ctx context.Context, organizationID int64) (*directory.Organization, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
