package create_portal_booking

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	createBooking "github.com/evtikhov/BMA-SchedulingService/internal/usecase/create_booking"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// CreateBookingRequest HTTP request model бронирования из личного кабинета
type CreateBookingRequest struct {
	OrganizationID  int64   `json:"organizationId"`
	BookingTypeID   *int64  `json:"bookingTypeId,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	BookingDate     string  `json:"bookingDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	ContactID       *int64  `json:"contactId,omitempty"`
	GuestName       string  `json:"guestName"`
	GuestEmail      string  `json:"guestEmail,omitempty"`
	GuestPhone      *string `json:"guestPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	Reference       string  `json:"reference"`
	OrganizationID  int64   `json:"organizationId"`
	ClientID        *int64  `json:"clientId,omitempty"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	BookingTypeName string  `json:"bookingTypeName,omitempty"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// clientID берется из контекста запроса, не из тела.
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Channel:         createBooking.ChannelPortal,
		OrganizationID:  r.OrganizationID,
		BookingTypeID:   r.BookingTypeID,
		DurationMinutes: r.DurationMinutes,
		Date:            bookingDate,
		StartTime:       startTime,
		ClientID:        &clientID,
		ContactID:       r.ContactID,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		OrganizationID:  resp.OrganizationID,
		ClientID:        resp.ClientID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		BookingTypeName: resp.BookingTypeName,
		Price:           resp.Price,
		Currency:        resp.Currency,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
