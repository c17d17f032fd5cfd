package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	directoryClient "github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/schedule/models"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// Service сервис для работы с расписанием организации:
// правила доступности по дням недели и настройки планирования
type Service struct {
	availabilityRepo AvailabilityRepository
	settingsRepo     SettingsRepository
	directory        DirectoryClient
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availabilityRepo AvailabilityRepository,
	settingsRepo SettingsRepository,
	directory DirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		settingsRepo:     settingsRepo,
		directory:        directory,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetSchedule получает расписание организации: правила доступности и настройки
func (s *Service) GetSchedule(ctx context.Context, organizationID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for organization=%d", organizationID)

	if err := s.checkOrganization(ctx, organizationID); err != nil {
		return nil, err
	}

	rules, err := s.availabilityRepo.GetByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get rules for organization=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	settings, err := s.loadSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetSchedule: successfully fetched %d rules for organization=%d", len(rules), organizationID)
	return models.FromDomainSchedule(organizationID, rules, settings), nil
}

// UpdateSchedule обновляет правила доступности и настройки планирования.
// Правила и настройки опциональны; переданные правила и настройки
// применяются атомарно в одной транзакции
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for organization=%d, rules=%d",
		req.OrganizationID, len(req.Rules))

	if err := s.checkOrganization(ctx, req.OrganizationID); err != nil {
		return nil, err
	}

	// 1. Валидируем входные данные до записи
	for i := range req.Rules {
		if err := validateRule(&req.Rules[i]); err != nil {
			s.logger.Warn("UpdateSchedule: rule validation failed for weekday=%d: %v", req.Rules[i].Weekday, err)
			return nil, err
		}
	}
	if req.Settings != nil {
		if err := validateSettings(req.Settings); err != nil {
			s.logger.Warn("UpdateSchedule: settings validation failed: %v", err)
			return nil, err
		}
	}

	// 2. Применяем изменения в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for i := range req.Rules {
			rule := req.Rules[i].ToDomainRule(req.OrganizationID)
			if _, err := s.availabilityRepo.Upsert(txCtx, rule); err != nil {
				s.logger.Error("UpdateSchedule: failed to upsert rule weekday=%d: %v", rule.Weekday, err)
				return fmt.Errorf("%w: failed to upsert rule: %v", ErrInternal, err)
			}
		}

		if req.Settings != nil {
			settings := req.Settings.ToDomainSettings(req.OrganizationID)
			if _, err := s.settingsRepo.Upsert(txCtx, settings); err != nil {
				s.logger.Error("UpdateSchedule: failed to upsert settings: %v", err)
				return fmt.Errorf("%w: failed to upsert settings: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule for organization=%d", req.OrganizationID)

	// 3. Возвращаем актуальное расписание
	rules, err := s.availabilityRepo.GetByOrganization(ctx, req.OrganizationID)
	if err != nil {
		s.logger.Error("UpdateSchedule: failed to re-read rules: %v", err)
		return nil, fmt.Errorf("%w: failed to re-read rules: %v", ErrInternal, err)
	}

	settings, err := s.loadSettings(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSchedule(req.OrganizationID, rules, settings), nil
}

// Вспомогательные методы

// checkOrganization проверяет существование организации в справочнике
func (s *Service) checkOrganization(ctx context.Context, organizationID int64) error {
	if _, err := s.directory.GetOrganization(ctx, organizationID); err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			s.logger.Warn("checkOrganization: organization id=%d not found", organizationID)
			return ErrOrganizationNotFound
		}
		s.logger.Error("checkOrganization: failed to get organization id=%d: %v", organizationID, err)
		return fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}
	return nil
}

// loadSettings загружает настройки или возвращает дефолтные
func (s *Service) loadSettings(ctx context.Context, organizationID int64) (*domain.SchedulingSettings, error) {
	settings, err := s.settingsRepo.GetByOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.DefaultSchedulingSettings(organizationID), nil
		}
		s.logger.Error("loadSettings: failed to get settings for organization=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	return settings, nil
}

// validateRule проверяет корректность правила доступности
func validateRule(rule *models.RuleInput) error {
	if rule.Weekday < 0 || rule.Weekday > 6 {
		return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidWeekday)
	}

	openTime := types.TimeString(rule.OpenTime)
	if err := openTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInvalidInput, err)
	}

	closeTime := types.TimeString(rule.CloseTime)
	if err := closeTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid close time: %v", ErrInvalidInput, err)
	}

	if !openTime.IsBefore(closeTime) {
		return fmt.Errorf("%w: open time must be before close time", ErrInvalidTimeRange)
	}

	return nil
}

// validateSettings проверяет границы настроек планирования
func validateSettings(settings *models.SettingsInput) error {
	if settings.BufferMinutes < domain.MinBufferMinutes || settings.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: buffer must be between %d and %d minutes",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if settings.MinBookingNoticeMinutes < 0 || settings.MinBookingNoticeMinutes > domain.MaxNoticeMinutes {
		return fmt.Errorf("%w: notice must be between 0 and %d minutes",
			ErrInvalidInput, domain.MaxNoticeMinutes)
	}
	if settings.AdvanceBookingDays < 0 || settings.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}
	return nil
}
