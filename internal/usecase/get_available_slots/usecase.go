package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	availabilityRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/availability"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	directoryClient "github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
)

// UseCase use case для получения доступных слотов на день.
// Результат - чистая функция от (правила, бронирования, буфер, длительность,
// текущее время): никакого кэширования между запросами, календарь меняется.
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settingsRepo     SettingsRepository
	directory        DirectoryClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	settingsRepo SettingsRepository,
	directory DirectoryClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settingsRepo:     settingsRepo,
		directory:        directory,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: organization=%d, date=%s",
		req.OrganizationID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование организации
	if _, err := uc.directory.GetOrganization(ctx, req.OrganizationID); err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			uc.logger.Warn("GetAvailableSlots: organization id=%d not found", req.OrganizationID)
			return nil, ErrOrganizationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get organization id=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	// 4. Определяем длительность слота
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Получаем настройки планирования (или дефолтные)
	settings, err := uc.settingsRepo.GetByOrganization(ctx, req.OrganizationID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	if settings == nil {
		settings = domain.DefaultSchedulingSettings(req.OrganizationID)
		uc.logger.Info("GetAvailableSlots: using default settings for organization=%d", req.OrganizationID)
	}

	// 6. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем правило доступности на день недели.
	// День без активного правила - это пустой список слотов, а не ошибка.
	rule, err := uc.availabilityRepo.GetForWeekday(ctx, req.OrganizationID, int(req.Date.Weekday()))
	if err != nil && !errors.Is(err, availabilityRepo.ErrRuleNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get availability rule: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
	}
	if !rule.IsOpen() {
		uc.logger.Info("GetAvailableSlots: organization=%d has no availability on %s",
			req.OrganizationID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, duration), nil
	}

	// 8. Генерируем кандидатов на фиксированной сетке
	candidates, err := generateCandidateSlots(rule.OpenTime, rule.CloseTime, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidate slots: %v", ErrInternal, err)
	}

	// 9. Исключаем прошедшие слоты при запросе "на сегодня"
	candidates = filterElapsedSlots(candidates, req.Date, now, settings.MinBookingNoticeMinutes)

	// 10. Получаем активные бронирования на эту дату
	filter := domain.OrganizationBookingsFilter{
		OrganizationID:   req.OrganizationID,
		StartDate:        &req.Date,
		EndDate:          &req.Date,
		IncludeCancelled: false,
	}

	bookings, err := uc.bookingRepo.GetByOrganizationWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 11. Помечаем доступность по пересечению с учетом буфера
	slots := markAvailability(candidates, duration, settings.BufferMinutes, bookings)

	uc.logger.Info("GetAvailableSlots: generated %d slots for organization=%d, date=%s",
		len(slots), req.OrganizationID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		OrganizationID:  req.OrganizationID,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}

// resolveDuration определяет длительность слота из типа бронирования или запроса
func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	bookingType, err := uc.directory.GetBookingType(ctx, req.OrganizationID, *req.BookingTypeID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrBookingTypeNotFound) {
			uc.logger.Warn("GetAvailableSlots: booking type id=%d not found", *req.BookingTypeID)
			return 0, ErrBookingTypeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get booking type id=%d: %v", *req.BookingTypeID, err)
		return 0, fmt.Errorf("%w: failed to get booking type: %v", ErrInternal, err)
	}

	if err := validateDuration(bookingType.DurationMinutes); err != nil {
		return 0, err
	}

	return bookingType.DurationMinutes, nil
}

func (uc *UseCase) emptyResponse(req *Request, duration int) *Response {
	return &Response{
		Date:            req.Date,
		OrganizationID:  req.OrganizationID,
		DurationMinutes: duration,
		Slots:           []domain.Slot{},
	}
}
