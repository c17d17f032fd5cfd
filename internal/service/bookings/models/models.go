package models

import (
	"errors"
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	ClientID           int64  `json:"clientId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetOrganizationBookingsRequest запрос на получение календаря организации
type GetOrganizationBookingsRequest struct {
	OrganizationID   int64      `json:"organizationId"`
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetOrganizationBookingsRequest) ToDomainFilter() (domain.OrganizationBookingsFilter, error) {
	filter := domain.OrganizationBookingsFilter{
		OrganizationID:   r.OrganizationID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	Reference       string  `json:"reference"`
	OrganizationID  int64   `json:"organizationId"`
	ClientID        *int64  `json:"clientId,omitempty"`
	ContactID       *int64  `json:"contactId,omitempty"`
	BookingTypeID   *int64  `json:"bookingTypeId,omitempty"`
	BookingDate     string  `json:"bookingDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	LocationType    string  `json:"locationType"`

	GuestName  string  `json:"guestName"`
	GuestEmail string  `json:"guestEmail,omitempty"`
	GuestPhone *string `json:"guestPhone,omitempty"`

	// Денормализованные данные
	BookingTypeName string  `json:"bookingTypeName,omitempty"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		OrganizationID:  b.OrganizationID,
		ClientID:        b.ClientID,
		ContactID:       b.ContactID,
		BookingTypeID:   b.BookingTypeID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		LocationType:    string(b.LocationType),

		GuestName:  b.Guest.Name,
		GuestEmail: b.Guest.Email,
		GuestPhone: b.Guest.Phone,

		BookingTypeName: b.BookingTypeName,
		Price:           b.Price,
		Currency:        b.Currency,
		Notes:           b.Notes,

		CancellationReason: b.CancellationReason,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if dto := FromDomainBooking(b); dto != nil {
			resp.Bookings = append(resp.Bookings, *dto)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(status) {
	case domain.StatusPending:
		return domain.StatusPending, nil
	case domain.StatusConfirmed:
		return domain.StatusConfirmed, nil
	case domain.StatusCancelled:
		return domain.StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
