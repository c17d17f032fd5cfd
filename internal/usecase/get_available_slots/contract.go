package get_available_slots

import (
	"context"
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByOrganizationWithFilter получает бронирования организации на дату
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
