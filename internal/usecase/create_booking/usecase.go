package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/events"
	availabilityRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/booking"
	settingsRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/settings"
	"github.com/evtikhov/BMA-SchedulingService/internal/integrations/clientservice"
	directoryClient "github.com/evtikhov/BMA-SchedulingService/internal/integrations/directory"
)

// confirmationDispatchTimeout таймаут фоновой публикации подтверждения
const confirmationDispatchTimeout = 10 * time.Second

// UseCase use case для создания бронирования.
//
// Проверка доступности и вставка выполняются в SERIALIZABLE транзакции с
// блокировкой бронирований дня (FOR UPDATE): из двух конкурентных запросов
// на один слот ровно один получает бронирование, второй - ErrSlotNotAvailable.
// Exclusion constraint в схеме страхует инвариант на уровне хранилища.
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settingsRepo     SettingsRepository
	directory        DirectoryClient
	clients          ClientServiceClient
	events           EventPublisher
	txManager        TransactionManager
	timeProvider     TimeProvider
	commitTimeout    time.Duration
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	settingsRepo SettingsRepository,
	directory DirectoryClient,
	clients ClientServiceClient,
	eventPublisher EventPublisher,
	txManager TransactionManager,
	commitTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settingsRepo:     settingsRepo,
		directory:        directory,
		clients:          clients,
		events:           eventPublisher,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		commitTimeout:    commitTimeout,
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: channel=%s, organization=%d, date=%s, time=%s",
		req.Channel, req.OrganizationID, req.Date.Format(domain.DateFormat), req.StartTime)

	// Honeypot проверяется до всего остального: автоматическая отправка
	// получает правдоподобный успешный ответ без единой записи и без
	// сигнала о том, что она распознана.
	if req.Honeypot != "" {
		uc.logger.Warn("CreateBooking: honeypot triggered for organization=%d", req.OrganizationID)
		return uc.fabricatedResponse(req), nil
	}

	// 1. Валидация входных данных (до любых побочных эффектов)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем организацию
	org, err := uc.directory.GetOrganization(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrOrganizationNotFound) {
			uc.logger.Warn("CreateBooking: organization id=%d not found", req.OrganizationID)
			return nil, ErrOrganizationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get organization id=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	// 4. Получаем настройки планирования (или дефолтные)
	settings, err := uc.settingsRepo.GetByOrganization(ctx, req.OrganizationID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("CreateBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	if settings == nil {
		settings = domain.DefaultSchedulingSettings(req.OrganizationID)
		uc.logger.Info("CreateBooking: using default settings for organization=%d", req.OrganizationID)
	}

	// 5. Определяем параметры услуги
	bookingType, err := uc.resolveBookingType(ctx, req, settings)
	if err != nil {
		return nil, err
	}

	// 6. Валидация даты и времени с учетом настроек
	if err := validateDate(req.Date, now, settings); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем правило доступности на день
	rule, err := uc.availabilityRepo.GetForWeekday(ctx, req.OrganizationID, int(req.Date.Weekday()))
	if err != nil && !errors.Is(err, availabilityRepo.ErrRuleNotFound) {
		uc.logger.Error("CreateBooking: failed to get availability rule: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
	}
	if !rule.IsOpen() {
		uc.logger.Warn("CreateBooking: organization=%d is closed on %s",
			req.OrganizationID, req.Date.Format(domain.DateFormat))
		return nil, ErrOrganizationClosed
	}

	if err := validateSlotOnGrid(rule, req.StartTime, bookingType.durationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: slot grid validation failed: %v", err)
		return nil, err
	}

	if err := validateBookingTime(req.Date, req.StartTime, now, settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 8. Предварительная проверка доступности слота (вне транзакции).
	// Отсекает заведомо занятые слоты до обращения к клиентскому сервису;
	// решающая проверка повторяется внутри транзакции.
	if err := uc.checkSlotFree(ctx, req, bookingType.durationMinutes, settings.BufferMinutes); err != nil {
		return nil, err
	}

	// 9. Разрешаем идентичность клиента
	clientID, contactID, err := uc.resolveIdentity(ctx, req)
	if err != nil {
		return nil, err
	}

	// 10. Начальный статус по флагу requires_confirmation
	status := domain.StatusConfirmed
	if bookingType.requiresConfirmation {
		status = domain.StatusPending
	}

	booking := &domain.Booking{
		Reference:      uuid.NewString(),
		OrganizationID: req.OrganizationID,
		ClientID:       clientID,
		ContactID:      contactID,
		Guest: domain.GuestInfo{
			Name:  req.GuestName,
			Email: req.GuestEmail,
			Phone: req.GuestPhone,
		},
		BookingTypeID:   req.BookingTypeID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: bookingType.durationMinutes,
		Status:          status,
		LocationType:    bookingType.locationType,
		Visible:         true,
		BookingTypeName: bookingType.name,
		Price:           bookingType.price,
		Currency:        bookingType.currency,
		Notes:           req.Notes,
	}

	// 11. Решающая проверка и вставка в сериализуемой транзакции
	// с явным таймаутом на операции с хранилищем
	txCtx, cancel := context.WithTimeout(ctx, uc.commitTimeout)
	defer cancel()

	err = uc.txManager.DoSerializable(txCtx, func(txCtx context.Context) error {
		filter := domain.OrganizationBookingsFilter{
			OrganizationID:   req.OrganizationID,
			StartDate:        &req.Date,
			EndDate:          &req.Date,
			IncludeCancelled: false,
		}

		// Чтение с блокировкой (FOR UPDATE) внутри транзакции
		// Ошибки хранилища внутри транзакции оборачиваются через %w:
		// конфликт сериализации должен дойти до DoSerializable для повтора
		bookings, err := uc.bookingRepo.GetByOrganizationWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		conflict, err := hasConflict(req.StartTime, booking.DurationMinutes, settings.BufferMinutes, bookings)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
		}
		if conflict {
			uc.logger.Warn("CreateBooking: slot %s on %s is no longer available",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Страховка хранилища: конкурентная запись успела занять интервал
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected slot %s on %s",
					req.StartTime, req.Date.Format(domain.DateFormat))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		booking = created
		return nil
	})

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Error("CreateBooking: storage timeout after %s", uc.commitTimeout)
			return nil, ErrStorageTimeout
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d reference=%s status=%s",
		booking.ID, booking.Reference, booking.Status)

	// 12. События и подтверждение - best-effort, не влияют на результат
	uc.events.BookingCreated(ctx, booking)
	uc.dispatchConfirmation(booking, org)

	return &Response{
		ID:              booking.ID,
		Reference:       booking.Reference,
		OrganizationID:  booking.OrganizationID,
		ClientID:        booking.ClientID,
		BookingDate:     booking.BookingDate,
		StartTime:       booking.StartTime,
		DurationMinutes: booking.DurationMinutes,
		Status:          string(booking.Status),
		BookingTypeName: booking.BookingTypeName,
		Price:           booking.Price,
		Currency:        booking.Currency,
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
	}, nil
}

// resolvedBookingType параметры услуги, определяющие бронирование
type resolvedBookingType struct {
	durationMinutes      int
	name                 string
	price                float64
	currency             string
	locationType         domain.LocationType
	requiresConfirmation bool
}

// resolveBookingType определяет параметры услуги из справочника или из запроса
func (uc *UseCase) resolveBookingType(ctx context.Context, req *Request, settings *domain.SchedulingSettings) (*resolvedBookingType, error) {
	if req.BookingTypeID == nil {
		// Бронирование на произвольную длительность: статус определяют
		// настройки организации
		return &resolvedBookingType{
			durationMinutes:      *req.DurationMinutes,
			locationType:         domain.LocationInPerson,
			requiresConfirmation: settings.RequiresConfirmation,
		}, nil
	}

	bt, err := uc.directory.GetBookingType(ctx, req.OrganizationID, *req.BookingTypeID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrBookingTypeNotFound) {
			uc.logger.Warn("CreateBooking: booking type id=%d not found", *req.BookingTypeID)
			return nil, ErrBookingTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get booking type id=%d: %v", *req.BookingTypeID, err)
		return nil, fmt.Errorf("%w: failed to get booking type: %v", ErrInternal, err)
	}

	price := 0.0
	if bt.Price != nil {
		price = *bt.Price
	}

	locationType := domain.LocationType(bt.LocationType)
	switch locationType {
	case domain.LocationInPerson, domain.LocationVirtual, domain.LocationPhone:
	default:
		locationType = domain.LocationInPerson
	}

	return &resolvedBookingType{
		durationMinutes:      bt.DurationMinutes,
		name:                 bt.Name,
		price:                price,
		currency:             bt.Currency,
		locationType:         locationType,
		requiresConfirmation: bt.RequiresConfirmation,
	}, nil
}

// checkSlotFree быстрая проверка доступности слота вне транзакции
func (uc *UseCase) checkSlotFree(ctx context.Context, req *Request, durationMinutes, bufferMinutes int) error {
	filter := domain.OrganizationBookingsFilter{
		OrganizationID:   req.OrganizationID,
		StartDate:        &req.Date,
		EndDate:          &req.Date,
		IncludeCancelled: false,
	}

	bookings, err := uc.bookingRepo.GetByOrganizationWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings for pre-check: %v", err)
		return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	conflict, err := hasConflict(req.StartTime, durationMinutes, bufferMinutes, bookings)
	if err != nil {
		return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
	}
	if conflict {
		uc.logger.Warn("CreateBooking: slot %s on %s is already taken",
			req.StartTime, req.Date.Format(domain.DateFormat))
		return ErrSlotNotAvailable
	}

	return nil
}

// resolveIdentity разрешает идентичность клиента в зависимости от канала
func (uc *UseCase) resolveIdentity(ctx context.Context, req *Request) (clientID, contactID *int64, err error) {
	if req.Channel == ChannelPortal {
		return req.ClientID, req.ContactID, nil
	}

	resolved, err := uc.clients.ResolveOrCreateClient(ctx, &clientservice.ResolveClientRequest{
		OrganizationID: req.OrganizationID,
		Email:          req.GuestEmail,
		Name:           req.GuestName,
		Phone:          req.GuestPhone,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve client by email: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to resolve client: %v", ErrInternal, err)
	}

	return &resolved.ClientID, &resolved.ContactID, nil
}

// fabricatedResponse правдоподобный успешный ответ для honeypot-запросов
func (uc *UseCase) fabricatedResponse(req *Request) *Response {
	duration := 0
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	return &Response{
		Reference:       uuid.NewString(),
		OrganizationID:  req.OrganizationID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		Status:          string(domain.StatusConfirmed),
		CreatedAt:       uc.timeProvider.Now(),
	}
}

// dispatchConfirmation публикует запрос на письмо-подтверждение в фоне.
// Задержки и сбои отправки не влияют на результат бронирования.
func (uc *UseCase) dispatchConfirmation(booking *domain.Booking, org *directoryClient.Organization) {
	if booking.Guest.Email == "" {
		return
	}

	msg := &events.ConfirmationMessage{
		Recipient:        booking.Guest.Email,
		Name:             booking.Guest.Name,
		OrganizationName: org.Name,
		DateFormatted:    formatDateForLocale(booking.BookingDate, org.Locale),
		Time:             booking.StartTime.String(),
		DurationMinutes:  booking.DurationMinutes,
		Status:           string(booking.Status),
		Locale:           org.Locale,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), confirmationDispatchTimeout)
		defer cancel()
		uc.events.SendConfirmation(ctx, msg)
	}()
}

// formatDateForLocale форматирует дату письма по локали организации
func formatDateForLocale(date time.Time, locale string) string {
	switch locale {
	case "ru":
		return date.Format("02.01.2006")
	default:
		return date.Format("Jan 2, 2006")
	}
}
