package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	bookingRepo "github.com/evtikhov/BMA-SchedulingService/internal/infra/storage/booking"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с существующими бронированиями
type Service struct {
	bookingRepo BookingRepository
	events      EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	events EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		events:      events,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - клиент может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, id int64, clientID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for client=%d", id, clientID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isOwner(booking, clientID) {
		s.logger.Warn("GetByID: access denied for client=%d to booking id=%d", clientID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetOrganizationBookings получает календарь бронирований организации
// Поддерживает фильтрацию по периоду, статусу и включению отменённых
func (s *Service) GetOrganizationBookings(ctx context.Context, req *models.GetOrganizationBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetOrganizationBookings: fetching bookings for organization=%d", req.OrganizationID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetOrganizationBookings: invalid filter for organization=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByOrganizationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOrganizationBookings: repository error for organization=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: GetOrganizationBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOrganizationBookings: successfully fetched %d bookings for organization=%d",
		len(bookings), req.OrganizationID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только своё бронирование; отменённое бронирование
// освобождает слот и публикует событие booking.cancelled
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by client=%d", bookingID, req.ClientID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !isOwner(booking, req.ClientID) {
		s.logger.Warn("Cancel: access denied for client=%d to booking id=%d", req.ClientID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	// Best-effort, сбой публикации не отменяет результат
	s.events.BookingCancelled(ctx, booking, req.CancellationReason)
	return nil
}

// Confirm подтверждает ожидающее бронирование (pending -> confirmed)
// Доступно со стороны организации
func (s *Service) Confirm(ctx context.Context, bookingID int64) error {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Confirm: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeConfirmed() {
		s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
		return ErrCannotConfirm
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Confirm: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return nil
}

// isOwner проверяет, что бронирование принадлежит клиенту
func isOwner(booking *domain.Booking, clientID int64) bool {
	return booking.ClientID != nil && *booking.ClientID == clientID
}
