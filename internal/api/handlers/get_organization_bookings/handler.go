package get_organization_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/evtikhov/BMA-SchedulingService/internal/api/handlers"
	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/bookings"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus         = "некорректный статус"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{orgId}/bookings
// Query params: startDate, endDate (YYYY-MM-DD), status, includeCancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationIDStr := vars["orgId"]
	organizationID, err := strconv.ParseInt(organizationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/bookings - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	req := &models.GetOrganizationBookingsRequest{
		OrganizationID: organizationID,
	}

	query := r.URL.Query()

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /organizations/{id}/bookings - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /organizations/{id}/bookings - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		req.IncludeCancelled = raw == "true"
	}

	result, err := h.service.GetOrganizationBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /organizations/{id}/bookings - Invalid status filter: organization_id=%d", organizationID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /organizations/{id}/bookings - Failed to get bookings: organization_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /organizations/{id}/bookings - Bookings retrieved successfully: organization_id=%d, count=%d",
		organizationID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
