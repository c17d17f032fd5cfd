package domain

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// AvailabilityRule represents a per-weekday open window during which an
// organization accepts bookings. At most one rule per (organization, weekday);
// split shifts are not modeled.
type AvailabilityRule struct {
	ID             int64
	OrganizationID int64
	Weekday        int // 0-6, Sunday=0 (совпадает с time.Weekday)
	OpenTime       types.TimeString
	CloseTime      types.TimeString
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpen returns true if the rule defines a usable window
func (r *AvailabilityRule) IsOpen() bool {
	return r != nil && r.Active && !r.OpenTime.IsZero() && !r.CloseTime.IsZero()
}
