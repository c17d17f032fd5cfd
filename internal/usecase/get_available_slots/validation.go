package get_available_slots

import (
	"fmt"
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OrganizationID <= 0 {
		return fmt.Errorf("%w: organizationID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Длительность задается ровно одним способом
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
		if err := validateDuration(*req.DurationMinutes); err != nil {
			return err
		}
	}

	return nil
}

// validateDuration проверяет границы длительности
func validateDuration(durationMinutes int) error {
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	return nil
}

// validateDate проверяет, что дата подходит для запроса слотов
func validateDate(requestDate time.Time, now time.Time, settings *domain.SchedulingSettings) error {
	// Даты в прошлом вызывающие не запрашивают; запрос на такую дату - ошибка
	if isDateInPast(requestDate, now) {
		return ErrInvalidDate
	}

	if !settings.HasAdvanceBookingLimit() {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, settings.AdvanceBookingDays)

	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, requestDate.Location())

	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, settings.AdvanceBookingDays)
	}

	return nil
}
