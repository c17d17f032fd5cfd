package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/events"
	bookingRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/booking"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/clientservice"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
	"github.com/evtikhov/BMA-SchedulingService/pkg/ptr"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// fakeBookingRepo потокобезопасное in-memory хранилище бронирований
type fakeBookingRepo struct {
	mu          sync.Mutex
	bookings    []*domain.Booking
	nextID      int64
	createErr   error
	createCalls int
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	booking.UpdatedAt = booking.CreatedAt
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeBookingRepo) GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out, nil
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
	org      *directory.Organization
	orgErr   error
	bt       *directory.BookingType
	btErr    error
	orgCalls int
}

func (f *fakeDirectory) GetOrganization(ctx context.Context, organizationID int64) (*directory.Organization, error) {
	f.orgCalls++
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

type fakeClientService struct {
	mu       sync.Mutex
	resolved *clientservice.ResolvedClient
	err      error
	calls    int
}

func (f *fakeClientService) ResolveOrCreateClient(ctx context.Context, req *clientservice.ResolveClientRequest) (*clientservice.ResolvedClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resolved, nil
}

type fakeEvents struct {
	mu            sync.Mutex
	created       []*domain.Booking
	confirmations []*events.ConfirmationMessage
}

func (f *fakeEvents) BookingCreated(ctx context.Context, booking *domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, booking)
}

func (f *fakeEvents) SendConfirmation(ctx context.Context, msg *events.ConfirmationMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, msg)
}

func (f *fakeEvents) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeEvents) confirmationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirmations)
}

// fakeTxManager сериализует транзакции мьютексом, имитируя SERIALIZABLE
// изоляцию для конкурентных запросов
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc           *UseCase
	bookingRepo  *fakeBookingRepo
	directory    *fakeDirectory
	clients      *fakeClientService
	events       *fakeEvents
	settingsRepo *fakeSettingsRepo
}

// Понедельник 2026-03-16, рабочий день 09:00-17:00, буфер 15 минут
func newFixture() *fixture {
	f := &fixture{
		bookingRepo: &fakeBookingRepo{},
		directory: &fakeDirectory{
			org: &directory.Organization{ID: 1, Name: "Test Org", Locale: "en"},
		},
		clients: &fakeClientService{
			resolved: &clientservice.ResolvedClient{ClientID: 42, ContactID: 100},
		},
		events: &fakeEvents{},
		settingsRepo: &fakeSettingsRepo{settings: &domain.SchedulingSettings{
			OrganizationID: 1,
			BufferMinutes:  15,
		}},
	}

	f.uc = NewUseCase(
		f.bookingRepo,
		&fakeAvailabilityRepo{rule: &domain.AvailabilityRule{
			OrganizationID: 1,
			Weekday:        1,
			OpenTime:       types.TimeString("09:00"),
			CloseTime:      types.TimeString("17:00"),
			Active:         true,
		}},
		f.settingsRepo,
		f.directory,
		f.clients,
		f.events,
		&fakeTxManager{},
		5*time.Second,
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return f
}

func publicRequest() *Request {
	return &Request{
		Channel:         ChannelPublic,
		OrganizationID:  1,
		DurationMinutes: ptr.Ptr(30),
		Date:            time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		GuestName:       "Jane Roe",
		GuestEmail:      "jane@example.com",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, 30, resp.DurationMinutes)
	require.NotNil(t, resp.ClientID)
	assert.Equal(t, int64(42), *resp.ClientID)

	assert.Equal(t, 1, f.clients.calls)
	assert.Equal(t, 1, f.bookingRepo.createCalls)
	assert.Equal(t, 1, f.events.createdCount())

	// Письмо-подтверждение уходит в фоне
	assert.Eventually(t, func() bool {
		return f.events.confirmationCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateBooking_HoneypotShortCircuits(t *testing.T) {
	f := newFixture()

	req := publicRequest()
	req.Honeypot = "https://spam.example.com"
	// Даже некорректный запрос получает правдоподобный ответ
	req.GuestEmail = "not-an-email"

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Zero(t, resp.ID)

	// Ни единого обращения к хранилищу, справочнику или событиям
	assert.Zero(t, f.bookingRepo.createCalls)
	assert.Zero(t, f.directory.orgCalls)
	assert.Zero(t, f.clients.calls)
	assert.Zero(t, f.events.createdCount())
	assert.Zero(t, f.events.confirmationCount())
}

func TestCreateBooking_ValidationRejectsBeforeSideEffects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"missing guest name", func(req *Request) { req.GuestName = "" }},
		{"missing guest email", func(req *Request) { req.GuestEmail = "" }},
		{"malformed guest email", func(req *Request) { req.GuestEmail = "not-an-email" }},
		{"both duration sources", func(req *Request) { req.BookingTypeID = ptr.Ptr(int64(7)) }},
		{"no duration source", func(req *Request) { req.DurationMinutes = nil }},
		{"duration out of bounds", func(req *Request) { req.DurationMinutes = ptr.Ptr(1000) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			req := publicRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.bookingRepo.createCalls)
			assert.Zero(t, f.clients.calls)
		})
	}
}

func TestCreateBooking_PortalChannelSkipsResolution(t *testing.T) {
	f := newFixture()

	req := publicRequest()
	req.Channel = ChannelPortal
	req.ClientID = ptr.Ptr(int64(7))
	req.GuestEmail = ""

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.ClientID)
	assert.Equal(t, int64(7), *resp.ClientID)
	assert.Zero(t, f.clients.calls)
}

func TestCreateBooking_RequiresConfirmationYieldsPending(t *testing.T) {
	f := newFixture()
	f.settingsRepo.settings.RequiresConfirmation = true

	resp, err := f.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestCreateBooking_BookingTypeConfirmationFlagWins(t *testing.T) {
	f := newFixture()
	f.directory.bt = &directory.BookingType{
		ID:                   7,
		OrganizationID:       1,
		Name:                 "Consultation",
		DurationMinutes:      60,
		Price:                ptr.Ptr(40.0),
		Currency:             "EUR",
		LocationType:         "virtual",
		RequiresConfirmation: true,
	}

	req := publicRequest()
	req.DurationMinutes = nil
	req.BookingTypeID = ptr.Ptr(int64(7))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Consultation", resp.BookingTypeName)
	assert.Equal(t, 40.0, resp.Price)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestCreateBooking_ConflictingSlotRejected(t *testing.T) {
	f := newFixture()
	f.bookingRepo.bookings = []*domain.Booking{
		{
			OrganizationID:  1,
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	}

	_, err := f.uc.Execute(context.Background(), publicRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Zero(t, f.bookingRepo.createCalls)
}

func TestCreateBooking_BufferedNeighbourRejected(t *testing.T) {
	f := newFixture()
	f.bookingRepo.bookings = []*domain.Booking{
		{
			OrganizationID:  1,
			StartTime:       types.TimeString("09:30"),
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	}

	// 10:00 начинается сразу после 09:30-10:00, но буфер 15 минут пересекается
	_, err := f.uc.Execute(context.Background(), publicRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCreateBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.bookingRepo.bookings = []*domain.Booking{
		{
			OrganizationID:  1,
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 30,
			Status:          domain.StatusCancelled,
		},
	}

	_, err := f.uc.Execute(context.Background(), publicRequest())
	assert.NoError(t, err)
}

func TestCreateBooking_StorageRejectionMapsToSlotNotAvailable(t *testing.T) {
	f := newFixture()
	f.bookingRepo.createErr = bookingRepo.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), publicRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCreateBooking_ClosedDayRejected(t *testing.T) {
	f := newFixture()

	req := publicRequest()
	// Воскресенье, правила нет
	req.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	f.uc.availabilityRepo = &fakeAvailabilityRepo{rule: nil}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOrganizationClosed)
}

func TestCreateBooking_OffGridStartRejected(t *testing.T) {
	f := newFixture()

	req := publicRequest()
	req.StartTime = types.TimeString("10:15")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateBooking_OutsideWindowRejected(t *testing.T) {
	f := newFixture()

	req := publicRequest()
	req.StartTime = types.TimeString("16:45")

	// Слот 16:45-17:15 выходит за закрытие
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateBooking_TooLateForToday(t *testing.T) {
	f := newFixture()
	// Сегодня понедельник 16-е, сейчас 10:00
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), publicRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestCreateBooking_MissingSettingsUsesDefaults(t *testing.T) {
	f := newFixture()
	f.settingsRepo.err = settingsRepo.ErrSettingsNotFound

	resp, err := f.uc.Execute(context.Background(), publicRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestCreateBooking_ConcurrentRequestsOneWinner(t *testing.T) {
	f := newFixture()

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), publicRequest())
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotNotAvailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one request must win the slot")
	assert.Equal(t, 1, conflicts, "the loser must see a slot conflict")
	assert.Len(t, f.bookingRepo.bookings, 1)
}
