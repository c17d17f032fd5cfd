package domain

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// LocationType represents where the appointment takes place
type LocationType string

const (
	LocationInPerson LocationType = "in_person"
	LocationVirtual  LocationType = "virtual"
	LocationPhone    LocationType = "phone"
)

// GuestInfo is a point-in-time snapshot of the requester taken when the
// booking is created. It stays on the booking even if the underlying
// contact record later changes or is deleted.
type GuestInfo struct {
	Name  string
	Email string
	Phone *string
}

// Booking represents an appointment occupying time on an organization's calendar
type Booking struct {
	ID             int64
	Reference      string // публичный идентификатор (uuid)
	OrganizationID int64
	ClientID       *int64
	ContactID      *int64
	Guest          GuestInfo

	BookingTypeID   *int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
	LocationType    LocationType
	Visible         bool

	// Denormalized data for history
	BookingTypeName string
	Price           float64
	Currency        string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies calendar time
// (pending and confirmed bookings both block their slot)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking is awaiting confirmation
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// EndTime returns the time-of-day the booking ends at
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// StartsAt combines the booking date and start time into a timestamp
func (b *Booking) StartsAt() (time.Time, error) {
	minutes, err := b.StartTime.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	d := b.BookingDate
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, d.Location()), nil
}

// OrganizationBookingsFilter фильтр для получения бронирований организации
type OrganizationBookingsFilter struct {
	OrganizationID   int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные бронирования
}
