package create_booking

import (
	"context"
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/events"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/clientservice"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	GetForWeekday(ctx context.Context, organizationID int64, weekday int) (*domain.AvailabilityRule, error)
}

// SettingsRepository интерфейс репозитория настроек планирования
type SettingsRepository interface {
	GetByOrganization(ctx context.Context, organizationID int64) (*domain.SchedulingSettings, error)
}

// DirectoryClient интерфейс клиента справочного сервиса
type DirectoryClient interface {
	GetOrganization(ctx context.Context, organizationID int64) (*directory.Organization, error)
	GetBookingType(ctx context.Context, organizationID, bookingTypeID int64) (*directory.BookingType, error)
}

// ClientServiceClient интерфейс клиента сервиса учета клиентов
type ClientServiceClient interface {
	ResolveOrCreateClient(ctx context.Context, req *clientservice.ResolveClientRequest) (*clientservice.ResolvedClient, error)
}

// EventPublisher интерфейс публикации событий жизненного цикла.
// Все методы best-effort: их сбой не влияет на результат бронирования.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *domain.Booking)
	SendConfirmation(ctx context.Context, msg *events.ConfirmationMessage)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
