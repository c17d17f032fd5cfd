package schedule

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTimeRange возвращается, когда открытие не раньше закрытия
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
