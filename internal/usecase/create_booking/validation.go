package create_booking

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса.
// Ошибки валидации возвращаются до любых побочных эффектов.
func validateRequest(req *Request) error {
	if req.OrganizationID <= 0 {
		return fmt.Errorf("%w: organizationID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.BookingTypeID == nil && req.DurationMinutes == nil {
		return fmt.Errorf("%w: either bookingTypeId or durationMinutes is required", ErrInvalidInput)
	}
	if req.BookingTypeID != nil && req.DurationMinutes != nil {
		return fmt.Errorf("%w: bookingTypeId and durationMinutes are mutually exclusive", ErrInvalidInput)
	}
	if req.BookingTypeID != nil && *req.BookingTypeID <= 0 {
		return fmt.Errorf("%w: bookingTypeId must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes != nil {
		d := *req.DurationMinutes
		if d < domain.MinDurationMinutes || d > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	switch req.Channel {
	case ChannelPublic:
		return validatePublicIdentity(req)
	case ChannelPortal:
		return validatePortalIdentity(req)
	default:
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, req.Channel)
	}
}

// validatePublicIdentity публичный канал: гость обязан указать имя и валидный email
func validatePublicIdentity(req *Request) error {
	if req.GuestName == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(req.GuestName) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: name must not exceed %d characters", ErrInvalidInput, domain.MaxGuestNameLength)
	}
	if req.GuestEmail == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.GuestEmail); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

// validatePortalIdentity портальный канал: идентичность уже разрешена
func validatePortalIdentity(req *Request) error {
	if req.ClientID == nil || *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}
	if req.GuestName == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.GuestEmail != "" {
		if _, err := mail.ParseAddress(req.GuestEmail); err != nil {
			return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
		}
	}
	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, settings *domain.SchedulingSettings) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	if !settings.HasAdvanceBookingLimit() {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, settings.AdvanceBookingDays)

	bookingDateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())

	if bookingDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, settings.AdvanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что бронирование "на сегодня" не нарушает
// минимальный запас времени до начала слота
func validateBookingTime(
	bookingDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minNoticeMinutes int,
) error {
	// Для дат, отличных от сегодняшней, проверка не нужна
	if !isSameDay(bookingDate, now) {
		return nil
	}

	start, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	cutoff := now.Hour()*60 + now.Minute() + minNoticeMinutes
	if start <= cutoff {
		if minNoticeMinutes > 0 {
			return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minNoticeMinutes)
		}
		return ErrTooLateToBook
	}

	return nil
}

// validateSlotOnGrid проверяет, что время начала лежит на сетке слотов
// рабочего окна и слот целиком помещается до закрытия
func validateSlotOnGrid(rule *domain.AvailabilityRule, startTime types.TimeString, durationMinutes int) error {
	open, err := rule.OpenTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid rule open time: %v", ErrInternal, err)
	}
	close, err := rule.CloseTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid rule close time: %v", ErrInternal, err)
	}
	start, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if start < open || start+durationMinutes > close {
		return ErrInvalidTimeSlot
	}
	if (start-open)%domain.SlotStepMinutes != 0 {
		return ErrInvalidTimeSlot
	}

	return nil
}

// hasConflict проверяет пересечение буферизованного слота с активными бронированиями.
// Полуоткрытые интервалы, строгие неравенства: граничное касание не конфликт.
func hasConflict(startTime types.TimeString, durationMinutes, bufferMinutes int, bookings []*domain.Booking) (bool, error) {
	start, err := startTime.Minutes()
	if err != nil {
		return false, err
	}

	bufferedStart := start - bufferMinutes
	bufferedEnd := start + durationMinutes + bufferMinutes

	for _, booking := range bookings {
		// Отмененные бронирования слот не занимают
		if !booking.IsActive() {
			continue
		}

		bookingStart, err := booking.StartTime.Minutes()
		if err != nil {
			continue
		}
		bookingEnd := bookingStart + booking.DurationMinutes

		if bufferedStart < bookingEnd && bufferedEnd > bookingStart {
			return true, nil
		}
	}

	return false, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
