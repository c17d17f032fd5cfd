package create_booking

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("create_booking: organization not found")

	// ErrBookingTypeNotFound возвращается, когда тип бронирования не найден
	ErrBookingTypeNotFound = errors.New("create_booking: booking type not found")

	// ErrOrganizationClosed возвращается, когда у организации нет приема в указанную дату
	ErrOrganizationClosed = errors.New("create_booking: organization is closed on this date")

	// ErrSlotNotAvailable возвращается, когда запрошенный слот уже занят.
	// Ожидаемая, повторяемая ошибка: вызывающий выбирает другой слот.
	ErrSlotNotAvailable = errors.New("create_booking: slot is no longer available")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке слотов
	// или выходит за рабочее окно дня
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается при нарушении minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrStorageTimeout возвращается при истечении таймаута операций с хранилищем.
	// Повторяемая ошибка, отличная от конфликта слота.
	ErrStorageTimeout = errors.New("create_booking: storage operation timed out")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
