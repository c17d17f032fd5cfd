package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	bookingRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/booking"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/bookings/models"
	"github.com/evtikhov/BMA-SchedulingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	cancelCalls   int
	cancelReason  string
	updatedStatus *domain.BookingStatus
	listResult    []*domain.Booking
	listFilter    *domain.OrganizationBookingsFilter
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetByOrganizationWithFilter(_ context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error) {
	f.listFilter = &filter
	return f.listResult, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updatedStatus = &status
	f.bookings[id].Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.cancelCalls++
	f.cancelReason = reason
	f.bookings[id].Status = domain.StatusCancelled
	return nil
}

type fakeEvents struct {
	cancelled int
}

func (f *fakeEvents) BookingCancelled(_ context.Context, _ *domain.Booking, _ string) {
	f.cancelled++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func storedBooking(id int64, clientID int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		Reference:       "7f9f1d2e-0000-4000-8000-000000000001",
		OrganizationID:  10,
		ClientID:        ptr.Ptr(clientID),
		Guest:           domain.GuestInfo{Name: "Jane Roe", Email: "jane@example.com"},
		BookingDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 30,
		Status:          status,
		LocationType:    domain.LocationInPerson,
		Visible:         true,
	}
}

func newTestService(repo *fakeBookingRepo, events *fakeEvents) *Service {
	return NewService(repo, events, nopLogger{})
}

func TestGetByID_OwnerSeesBooking(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusConfirmed),
	}}
	svc := newTestService(repo, &fakeEvents{})

	resp, err := svc.GetByID(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "2026-03-16", resp.BookingDate)
}

func TestGetByID_ForeignBookingDenied(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusConfirmed),
	}}
	svc := newTestService(repo, &fakeEvents{})

	_, err := svc.GetByID(context.Background(), 1, 99)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_GuestBookingHasNoOwner(t *testing.T) {
	// Бронирование без clientId (гостевое) не принадлежит никому из портала
	b := storedBooking(1, 0, domain.StatusConfirmed)
	b.ClientID = nil
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: b}}
	svc := newTestService(repo, &fakeEvents{})

	_, err := svc.GetByID(context.Background(), 1, 42)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	svc := newTestService(repo, &fakeEvents{})

	_, err := svc.GetByID(context.Background(), 77, 42)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_OwnerCancelsAndEventPublished(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusConfirmed),
	}}
	events := &fakeEvents{}
	svc := newTestService(repo, events)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ClientID:           42,
		CancellationReason: "schedule change",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, "schedule change", repo.cancelReason)
	assert.Equal(t, 1, events.cancelled)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)
}

func TestCancel_AlreadyCancelledRejected(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusCancelled),
	}}
	events := &fakeEvents{}
	svc := newTestService(repo, events)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ClientID: 42})

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Zero(t, repo.cancelCalls)
	assert.Zero(t, events.cancelled)
}

func TestCancel_ReasonTooLongRejected(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusConfirmed),
	}}
	events := &fakeEvents{}
	svc := newTestService(repo, events)

	reason := strings.Repeat("x", domain.MaxCancellationReasonLength+1)
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ClientID:           42,
		CancellationReason: reason,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, repo.cancelCalls)
	assert.Zero(t, events.cancelled)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)
}

func TestCancel_ForeignBookingDenied(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusConfirmed),
	}}
	svc := newTestService(repo, &fakeEvents{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ClientID: 7})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.cancelCalls)
}

func TestConfirm_PendingBecomesConfirmed(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: storedBooking(1, 42, domain.StatusPending),
	}}
	svc := newTestService(repo, &fakeEvents{})

	err := svc.Confirm(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)
}

func TestConfirm_NonPendingRejected(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
	}{
		{"already confirmed", domain.StatusConfirmed},
		{"cancelled", domain.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
				1: storedBooking(1, 42, tt.status),
			}}
			svc := newTestService(repo, &fakeEvents{})

			err := svc.Confirm(context.Background(), 1)

			assert.ErrorIs(t, err, ErrCannotConfirm)
			assert.Nil(t, repo.updatedStatus)
		})
	}
}

func TestGetOrganizationBookings_FilterPassedThrough(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: map[int64]*domain.Booking{},
		listResult: []*domain.Booking{
			storedBooking(1, 42, domain.StatusConfirmed),
			storedBooking(2, 43, domain.StatusPending),
		},
	}
	svc := newTestService(repo, &fakeEvents{})

	start := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)
	resp, err := svc.GetOrganizationBookings(context.Background(), &models.GetOrganizationBookingsRequest{
		OrganizationID: 10,
		StartDate:      &start,
		EndDate:        &end,
		Status:         ptr.Ptr("confirmed"),
	})

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
	require.NotNil(t, repo.listFilter)
	assert.Equal(t, int64(10), repo.listFilter.OrganizationID)
	require.NotNil(t, repo.listFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.listFilter.Status)
	assert.False(t, repo.listFilter.IncludeCancelled)
}

func TestGetOrganizationBookings_UnknownStatusRejected(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	svc := newTestService(repo, &fakeEvents{})

	_, err := svc.GetOrganizationBookings(context.Background(), &models.GetOrganizationBookingsRequest{
		OrganizationID: 10,
		Status:         ptr.Ptr("archived"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, repo.listFilter)
}

func TestGetOrganizationBookings_RepositoryErrorWrapped(t *testing.T) {
	repo := &errRepo{}
	svc := newTestService2(repo)

	_, err := svc.GetOrganizationBookings(context.Background(), &models.GetOrganizationBookingsRequest{OrganizationID: 10})

	assert.ErrorIs(t, err, ErrInternal)
}

// errRepo всегда возвращает ошибку хранилища
type errRepo struct{}

var errStorage = errors.New("storage unavailable")

func (errRepo) GetByID(context.Context, int64) (*domain.Booking, error) {
	return nil, errStorage
}

func (errRepo) GetByOrganizationWithFilter(context.Context, domain.OrganizationBookingsFilter) ([]*domain.Booking, error) {
	return nil, errStorage
}

func (errRepo) UpdateStatus(context.Context, int64, domain.BookingStatus) error {
	return errStorage
}

func (errRepo) Cancel(context.Context, int64, string) error {
	return errStorage
}

func newTestService2(repo BookingRepository) *Service {
	return NewService(repo, &fakeEvents{}, nopLogger{})
}
