package domain

import "github.com/evtikhov/BMA-SchedulingService/pkg/types"

// Slot represents a candidate (time-of-day, available?) pair for a specific
// date and duration. Slots are computed fresh on every query and never cached.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}
