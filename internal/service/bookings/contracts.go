package bookings

import (
	"context"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// EventPublisher интерфейс публикации событий жизненного цикла.
// Все методы best-effort: их сбой не влияет на результат операции.
type EventPublisher interface {
	BookingCancelled(ctx context.Context, booking *domain.Booking, reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
