package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
)

type published struct {
	key     string
	payload interface{}
}

type fakeMessagePublisher struct {
	messages []published
	err      error
}

func (f *fakeMessagePublisher) PublishJSON(_ context.Context, key string, v interface{}) error {
	f.messages = append(f.messages, published{key: key, payload: v})
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:              7,
		Reference:       "a3c5e8d1-0000-4000-8000-000000000007",
		OrganizationID:  10,
		Guest:           domain.GuestInfo{Name: "Jane Roe", Email: "jane@example.com"},
		BookingDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 45,
		Status:          domain.StatusConfirmed,
		BookingTypeName: "Consultation",
	}
}

func TestBookingCreated_PublishesEventAndActivity(t *testing.T) {
	pub := &fakeMessagePublisher{}
	p := &Publisher{pub: pub, log: nopLogger{}}

	p.BookingCreated(context.Background(), testBooking())

	require.Len(t, pub.messages, 2)
	assert.Equal(t, KeyBookingCreated, pub.messages[0].key)
	assert.Equal(t, KeyActivityEvent, pub.messages[1].key)

	event, ok := pub.messages[0].payload.(BookingCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(7), event.BookingID)
	assert.Equal(t, "2026-03-16", event.BookingDate)
	assert.Equal(t, "10:00", event.StartTime)
	assert.Equal(t, "10:45", event.EndTime)
	assert.Equal(t, "confirmed", event.Status)
}

func TestBookingCreated_PublishFailureSwallowed(t *testing.T) {
	pub := &fakeMessagePublisher{err: errors.New("broker unavailable")}
	p := &Publisher{pub: pub, log: nopLogger{}}

	// Публикация best-effort: сбой брокера не паникует и не прерывает вызов
	p.BookingCreated(context.Background(), testBooking())

	assert.Len(t, pub.messages, 2)
}

func TestBookingCancelled_CarriesReason(t *testing.T) {
	pub := &fakeMessagePublisher{}
	p := &Publisher{pub: pub, log: nopLogger{}}

	p.BookingCancelled(context.Background(), testBooking(), "schedule change")

	require.Len(t, pub.messages, 1)
	assert.Equal(t, KeyBookingCancelled, pub.messages[0].key)

	event, ok := pub.messages[0].payload.(BookingCancelledEvent)
	require.True(t, ok)
	assert.Equal(t, "schedule change", event.Reason)
	assert.Equal(t, int64(7), event.BookingID)
}
