package domain

// SlotStepMinutes шаг сетки слотов. Фиксированный и не зависит от
// длительности услуги: даже 45-минутная услуга может начинаться только
// на границе 30-минутной сетки.
const SlotStepMinutes = 30

// Default scheduling policy values
const (
	DefaultBufferMinutes           = 0
	DefaultMinBookingNoticeMinutes = 0
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultRequiresConfirmation    = false
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 240 // 4 hours
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxNoticeMinutes            = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxGuestNameLength          = 200
)

// DateFormat формат дат в API и событиях
const DateFormat = "2006-01-02" // YYYY-MM-DD

// ActiveStatuses статусы бронирований, занимающих время в календаре.
// Используется при подсчете конфликтов слотов.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
