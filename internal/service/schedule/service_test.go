package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/schedule/models"
)

type fakeAvailabilityRepo struct {
	rules   []*domain.AvailabilityRule
	upserts []*domain.AvailabilityRule
}

func (f *fakeAvailabilityRepo) GetByOrganization(_ context.Context, _ int64) ([]*domain.AvailabilityRule, error) {
	return f.rules, nil
}

func (f *fakeAvailabilityRepo) Upsert(_ context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	f.upserts = append(f.upserts, rule)

	// Эмулируем upsert по (organization, weekday)
	for i, existing := range f.rules {
		if existing.Weekday == rule.Weekday {
			f.rules[i] = rule
			return rule, nil
		}
	}
	f.rules = append(f.rules, rule)
	return rule, nil
}

type fakeSettingsRepo struct {
	settings *domain.SchedulingSettings
	upserts  int
}

func (f *fakeSettingsRepo) GetByOrganization(_ context.Context, _ int64) (*domain.SchedulingSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, s *domain.SchedulingSettings) (*domain.SchedulingSettings, error) {
	f.upserts++
	f.settings = s
	return s, nil
}

type fakeDirectory struct {
	missing bool
}

func (f *fakeDirectory) GetOrganization(_ context.Context, organizationID int64) (*directory.Organization, error) {
	if f.missing {
		return nil, directory.ErrOrganizationNotFound
	}
	return &directory.Organization{ID: organizationID, Name: "Test Org"}, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	availability *fakeAvailabilityRepo
	settings     *fakeSettingsRepo
	directory    *fakeDirectory
	txManager    *fakeTxManager
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		availability: &fakeAvailabilityRepo{},
		settings:     &fakeSettingsRepo{},
		directory:    &fakeDirectory{},
		txManager:    &fakeTxManager{},
	}
	f.svc = NewService(f.availability, f.settings, f.directory, f.txManager, nopLogger{})
	return f
}

func TestGetSchedule_MissingSettingsFallBackToDefaults(t *testing.T) {
	f := newFixture()
	f.availability.rules = []*domain.AvailabilityRule{
		{OrganizationID: 10, Weekday: 1, OpenTime: "09:00", CloseTime: "17:00", Active: true},
	}

	resp, err := f.svc.GetSchedule(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, "09:00", resp.Rules[0].OpenTime)
	assert.Equal(t, domain.DefaultBufferMinutes, resp.Settings.BufferMinutes)
	assert.Equal(t, domain.DefaultAdvanceBookingDays, resp.Settings.AdvanceBookingDays)
}

func TestGetSchedule_OrganizationNotFound(t *testing.T) {
	f := newFixture()
	f.directory.missing = true

	_, err := f.svc.GetSchedule(context.Background(), 10)

	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestUpdateSchedule_RulesAndSettingsAppliedInOneTransaction(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		OrganizationID: 10,
		Rules: []models.RuleInput{
			{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00", Active: true},
			{Weekday: 2, OpenTime: "10:00", CloseTime: "18:00", Active: true},
		},
		Settings: &models.SettingsInput{
			BufferMinutes:           15,
			MinBookingNoticeMinutes: 60,
			AdvanceBookingDays:      30,
			RequiresConfirmation:    true,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.txManager.calls)
	assert.Len(t, f.availability.upserts, 2)
	assert.Equal(t, 1, f.settings.upserts)
	assert.Len(t, resp.Rules, 2)
	assert.Equal(t, 15, resp.Settings.BufferMinutes)
	assert.True(t, resp.Settings.RequiresConfirmation)
}

func TestUpdateSchedule_SettingsOnly(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		OrganizationID: 10,
		Settings:       &models.SettingsInput{BufferMinutes: 30},
	})

	require.NoError(t, err)
	assert.Empty(t, f.availability.upserts)
	assert.Equal(t, 1, f.settings.upserts)
	assert.Equal(t, 30, resp.Settings.BufferMinutes)
}

func TestUpdateSchedule_ValidationRejectsBeforeWrite(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.UpdateScheduleRequest
		wantErr error
	}{
		{
			name: "weekday out of range",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Rules:          []models.RuleInput{{Weekday: 7, OpenTime: "09:00", CloseTime: "17:00"}},
			},
			wantErr: ErrInvalidWeekday,
		},
		{
			name: "malformed open time",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Rules:          []models.RuleInput{{Weekday: 1, OpenTime: "9:00", CloseTime: "17:00"}},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "open after close",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Rules:          []models.RuleInput{{Weekday: 1, OpenTime: "18:00", CloseTime: "09:00"}},
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "open equals close",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Rules:          []models.RuleInput{{Weekday: 1, OpenTime: "09:00", CloseTime: "09:00"}},
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "buffer above limit",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Settings:       &models.SettingsInput{BufferMinutes: domain.MaxBufferMinutes + 1},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "negative notice",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Settings:       &models.SettingsInput{MinBookingNoticeMinutes: -1},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "advance days above limit",
			req: &models.UpdateScheduleRequest{
				OrganizationID: 10,
				Settings:       &models.SettingsInput{AdvanceBookingDays: domain.MaxAdvanceBookingDays + 1},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.UpdateSchedule(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.txManager.calls)
			assert.Empty(t, f.availability.upserts)
			assert.Zero(t, f.settings.upserts)
		})
	}
}

func TestUpdateSchedule_UpsertReplacesExistingWeekday(t *testing.T) {
	f := newFixture()
	f.availability.rules = []*domain.AvailabilityRule{
		{OrganizationID: 10, Weekday: 1, OpenTime: "09:00", CloseTime: "17:00", Active: true},
	}

	resp, err := f.svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		OrganizationID: 10,
		Rules:          []models.RuleInput{{Weekday: 1, OpenTime: "08:00", CloseTime: "16:00", Active: false}},
	})

	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, "08:00", resp.Rules[0].OpenTime)
	assert.False(t, resp.Rules[0].Active)
}

func TestUpdateSchedule_OrganizationNotFound(t *testing.T) {
	f := newFixture()
	f.directory.missing = true

	_, err := f.svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		OrganizationID: 10,
		Rules:          []models.RuleInput{{Weekday: 1, OpenTime: "09:00", CloseTime: "17:00"}},
	})

	assert.ErrorIs(t, err, ErrOrganizationNotFound)
	assert.Zero(t, f.txManager.calls)
}
