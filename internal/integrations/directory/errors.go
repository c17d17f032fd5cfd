package directory

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("directory client: organization not found")

	// ErrBookingTypeNotFound возвращается, когда тип бронирования не найден
	ErrBookingTypeNotFound = errors.New("directory client: booking type not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directory client: invalid response")
)
