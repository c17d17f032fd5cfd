package events

// Routing keys событий в topic exchange
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingCancelled = "booking.cancelled"
	KeyActivityEvent    = "activity.booking"
	KeyConfirmation     = "notification.confirmation"
)

// BookingCreatedEvent уведомление организации о новом бронировании
type BookingCreatedEvent struct {
	OrganizationID int64  `json:"organization_id"`
	BookingID      int64  `json:"booking_id"`
	Reference      string `json:"reference"`
	GuestName      string `json:"guest_name"`
	BookingDate    string `json:"booking_date"` // YYYY-MM-DD
	StartTime      string `json:"start_time"`   // HH:MM
	EndTime        string `json:"end_time"`     // HH:MM
	Status         string `json:"status"`
}

// BookingCancelledEvent уведомление об отмене бронирования
type BookingCancelledEvent struct {
	OrganizationID int64  `json:"organization_id"`
	BookingID      int64  `json:"booking_id"`
	Reference      string `json:"reference"`
	Reason         string `json:"reason"`
}

// ActivityEvent запись в ленту активности по контакту/клиенту
type ActivityEvent struct {
	SubjectID   int64             `json:"subject_id"` // booking id
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	ScheduledAt string            `json:"scheduled_at"` // RFC3339
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ConfirmationMessage запрос на отправку письма-подтверждения.
// Доставка, шаблоны и повторы - зона ответственности notification-сервиса,
// ядро только публикует сообщение.
type ConfirmationMessage struct {
	Recipient        string `json:"recipient"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	DateFormatted    string `json:"date_formatted"`
	Time             string `json:"time"`
	DurationMinutes  int    `json:"duration_minutes"`
	Status           string `json:"status"`
	Locale           string `json:"locale"`
}
