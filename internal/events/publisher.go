package events

import (
	"context"
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/pkg/mq"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MessagePublisher интерфейс публикации сообщений (реализуется pkg/mq)
type MessagePublisher interface {
	PublishJSON(ctx context.Context, key string, v interface{}) error
}

// Publisher публикует события жизненного цикла бронирований.
// Все публикации best-effort: ошибки логируются и никогда не влияют
// на результат операции, породившей событие.
type Publisher struct {
	pub MessagePublisher
	log Logger
}

// NewPublisher создает новый экземпляр publisher поверх mq.Publisher
func NewPublisher(pub *mq.Publisher, log Logger) *Publisher {
	return &Publisher{pub: pub, log: log}
}

// BookingCreated публикует уведомление и запись активности о новом бронировании
func (p *Publisher) BookingCreated(ctx context.Context, booking *domain.Booking) {
	endTime := ""
	if et, err := booking.EndTime(); err == nil {
		endTime = et.String()
	}
	event := BookingCreatedEvent{
		OrganizationID: booking.OrganizationID,
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		GuestName:      booking.Guest.Name,
		BookingDate:    booking.BookingDate.Format(domain.DateFormat),
		StartTime:      booking.StartTime.String(),
		EndTime:        endTime,
		Status:         string(booking.Status),
	}
	if err := p.pub.PublishJSON(ctx, KeyBookingCreated, event); err != nil {
		p.log.Error("events: failed to publish %s for booking id=%d: %v", KeyBookingCreated, booking.ID, err)
	}

	scheduledAt := ""
	if startsAt, err := booking.StartsAt(); err == nil {
		scheduledAt = startsAt.Format(time.RFC3339)
	}
	activity := ActivityEvent{
		SubjectID:   booking.ID,
		Type:        "booking_scheduled",
		Title:       booking.BookingTypeName,
		ScheduledAt: scheduledAt,
		Metadata: map[string]string{
			"reference": booking.Reference,
			"status":    string(booking.Status),
		},
	}
	if err := p.pub.PublishJSON(ctx, KeyActivityEvent, activity); err != nil {
		p.log.Error("events: failed to publish %s for booking id=%d: %v", KeyActivityEvent, booking.ID, err)
	}
}

// BookingCancelled публикует событие отмены бронирования
func (p *Publisher) BookingCancelled(ctx context.Context, booking *domain.Booking, reason string) {
	event := BookingCancelledEvent{
		OrganizationID: booking.OrganizationID,
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		Reason:         reason,
	}
	if err := p.pub.PublishJSON(ctx, KeyBookingCancelled, event); err != nil {
		p.log.Error("events: failed to publish %s for booking id=%d: %v", KeyBookingCancelled, booking.ID, err)
	}
}

// SendConfirmation публикует запрос на отправку письма-подтверждения
func (p *Publisher) SendConfirmation(ctx context.Context, msg *ConfirmationMessage) {
	if err := p.pub.PublishJSON(ctx, KeyConfirmation, msg); err != nil {
		p.log.Error("events: failed to publish %s for recipient=%s: %v", KeyConfirmation, msg.Recipient, err)
	}
}

// NoopPublisher заглушка, используется когда rabbit выключен в конфигурации
type NoopPublisher struct{}

// BookingCreated ничего не делает
func (NoopPublisher) BookingCreated(ctx context.Context, booking *domain.Booking) {}

// BookingCancelled ничего не делает
func (NoopPublisher) BookingCancelled(ctx context.Context, booking *domain.Booking, reason string) {}

// SendConfirmation ничего не делает
func (NoopPublisher) SendConfirmation(ctx context.Context, msg *ConfirmationMessage) {}
