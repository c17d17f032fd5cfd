package create_booking

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// Channel канал, через который пришел запрос на бронирование
type Channel string

const (
	// ChannelPublic публичная страница бронирования: гость идентифицируется
	// email-ом, клиент находится или создается по нему
	ChannelPublic Channel = "public"

	// ChannelPortal личный кабинет: идентичность клиента уже разрешена
	// слоем аутентификации
	ChannelPortal Channel = "portal"
)

// Request модель запроса на создание бронирования.
// Оба канала используют один и тот же движок; различается только способ
// разрешения идентичности клиента.
type Request struct {
	Channel        Channel
	OrganizationID int64

	// Длительность: ровно один из двух способов
	BookingTypeID   *int64
	DurationMinutes *int

	Date      time.Time        // Дата бронирования (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")

	// Идентичность для портального канала
	ClientID  *int64
	ContactID *int64

	// Снимок данных гостя (публичный канал: обязательны имя и email)
	GuestName  string
	GuestEmail string
	GuestPhone *string

	Notes *string

	// Honeypot скрытое поле формы. Живые пользователи его не заполняют;
	// непустое значение означает автоматическую отправку.
	Honeypot string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // Внутренний ID бронирования
	Reference       string           // Публичный идентификатор (uuid)
	OrganizationID  int64            // ID организации
	ClientID        *int64           // ID клиента
	BookingDate     time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования

	// Денормализованные данные
	BookingTypeName string  // Название услуги
	Price           float64 // Цена
	Currency        string  // Валюта
	Notes           *string // Заметки

	CreatedAt time.Time // Время создания
}
