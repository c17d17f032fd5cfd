package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	availabilityRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/availability"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
	"github.com/evtikhov/BMA-SchedulingService/pkg/ptr"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeAvailabilityRepo struct {
	rule *domain.AvailabilityRule
	err  error
}

func (f *fakeAvailabilityRepo) GetForWeekday(ctx context.Context, organizationID int64, weekday int) (*domain.AvailabilityRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rule, nil
}

type fakeSettingsRepo struct {
	settings *domain.SchedulingSettings
	err      error
}

func (f *fakeSettingsRepo) GetByOrganization(ctx context.Context, organizationID int64) (*domain.SchedulingSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

type fakeDirectory struct {
	org     *directory.Organization
	orgErr  error
	bt      *directory.BookingType
	btErr   error
}

func (f *fakeDirectory) GetOrganization(ctx context.Context, organizationID int64) (*directory.Organization, error) {
	if f.orgErr != nil {
		return nil, f.orgErr
	}
	return f.org, nil
}

func (f *fakeDirectory) GetBookingType(ctx context.Context, organizationID, bookingTypeID int64) (*directory.BookingType, error) {
	if f.btErr != nil {
		return nil, f.btErr
	}
	return f.bt, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Понедельник 2026-03-16, рабочий день 09:00-17:00, буфер 15 минут
func newTestUseCase(bookings []*domain.Booking) *UseCase {
	uc := NewUseCase(
		&fakeBookingRepo{bookings: bookings},
		&fakeAvailabilityRepo{rule: &domain.AvailabilityRule{
			OrganizationID: 1,
			Weekday:        1,
			OpenTime:       types.TimeString("09:00"),
			CloseTime:      types.TimeString("17:00"),
			Active:         true,
		}},
		&fakeSettingsRepo{settings: &domain.SchedulingSettings{
			OrganizationID: 1,
			BufferMinutes:  15,
		}},
		&fakeDirectory{org: &directory.Organization{ID: 1, Name: "Test Org"}},
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return uc
}

func slotsRequest() *Request {
	return &Request{
		OrganizationID:  1,
		DurationMinutes: ptr.Ptr(30),
		Date:            time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecute_FullDayAvailable(t *testing.T) {
	uc := newTestUseCase(nil)

	resp, err := uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 16)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "16:30", resp.Slots[len(resp.Slots)-1].StartTime.String())
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.StartTime)
		assert.Equal(t, 30, slot.DurationMinutes)
	}
}

func TestExecute_BookingBlocksNeighbours(t *testing.T) {
	uc := newTestUseCase([]*domain.Booking{
		{
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	})

	resp, err := uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)

	availability := make(map[string]bool, len(resp.Slots))
	for _, slot := range resp.Slots {
		availability[slot.StartTime.String()] = slot.Available
	}

	assert.True(t, availability["09:00"])
	assert.False(t, availability["09:30"])
	assert.False(t, availability["10:00"])
	assert.False(t, availability["10:30"])
	assert.True(t, availability["11:00"])
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(nil)
	uc.availabilityRepo = &fakeAvailabilityRepo{err: availabilityRepo.ErrRuleNotFound}

	resp, err := uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InactiveRuleReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(nil)
	uc.availabilityRepo = &fakeAvailabilityRepo{rule: &domain.AvailabilityRule{
		OrganizationID: 1,
		Weekday:        1,
		OpenTime:       types.TimeString("09:00"),
		CloseTime:      types.TimeString("17:00"),
		Active:         false,
	}}

	resp, err := uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MissingSettingsFallsBackToDefaults(t *testing.T) {
	uc := newTestUseCase(nil)
	uc.settingsRepo = &fakeSettingsRepo{err: settingsRepo.ErrSettingsNotFound}

	resp, err := uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 16)
}

func TestExecute_TodayFiltersElapsedSlots(t *testing.T) {
	uc := newTestUseCase(nil)
	// Запрос на сегодня, сейчас 14:00
	uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 16, 14, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), slotsRequest())
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "14:30", resp.Slots[0].StartTime.String())
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(nil)

	req := slotsRequest()
	req.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateBeyondAdvanceLimitRejected(t *testing.T) {
	uc := newTestUseCase(nil)
	uc.settingsRepo = &fakeSettingsRepo{settings: &domain.SchedulingSettings{
		OrganizationID:     1,
		AdvanceBookingDays: 3,
	}}

	_, err := uc.Execute(context.Background(), slotsRequest())
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_OrganizationNotFound(t *testing.T) {
	uc := newTestUseCase(nil)
	uc.directory = &fakeDirectory{orgErr: directory.ErrOrganizationNotFound}

	_, err := uc.Execute(context.Background(), slotsRequest())
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestExecute_DurationFromBookingType(t *testing.T) {
	uc := newTestUseCase(nil)
	uc.directory = &fakeDirectory{
		org: &directory.Organization{ID: 1, Name: "Test Org"},
		bt: &directory.BookingType{
			ID:              7,
			OrganizationID:  1,
			Name:            "Consultation",
			DurationMinutes: 60,
		},
	}

	req := slotsRequest()
	req.DurationMinutes = nil
	req.BookingTypeID = ptr.Ptr(int64(7))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	// Сетка остается 30-минутной, последний час до закрытия уже не вмещает слот
	assert.Equal(t, "16:00", resp.Slots[len(resp.Slots)-1].StartTime.String())
}

func TestExecute_RequiresExactlyOneDurationSource(t *testing.T) {
	uc := newTestUseCase(nil)

	req := slotsRequest()
	req.BookingTypeID = ptr.Ptr(int64(7))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
