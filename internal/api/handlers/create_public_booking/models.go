package create_public_booking

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	createBooking "github.com/evtikhov/BMA-SchedulingService/internal/usecase/create_booking"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// CreateBookingRequest HTTP request model публичной формы бронирования
type CreateBookingRequest struct {
	BookingTypeID   *int64  `json:"bookingTypeId,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	BookingDate     string  `json:"bookingDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	GuestName       string  `json:"guestName"`
	GuestEmail      string  `json:"guestEmail"`
	GuestPhone      *string `json:"guestPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	// Скрытое поле формы, живые пользователи его не заполняют
	Website string `json:"website,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id,omitempty"`
	Reference       string  `json:"reference"`
	OrganizationID  int64   `json:"organizationId"`
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(organizationID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Channel:         createBooking.ChannelPublic,
		OrganizationID:  organizationID,
		BookingTypeID:   r.BookingTypeID,
		DurationMinutes: r.DurationMinutes,
		Date:            bookingDate,
		StartTime:       startTime,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		Notes:           r.Notes,
		Honeypot:        r.Website,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		OrganizationID:  resp.OrganizationID,
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
