package domain

import (
	"math"
	"time"

	"gopkg.in/guregu/null.v4"
)

type SessionState string

const (
	SessionOpen   SessionState = "open"
	SessionClosed SessionState = "closed"
)

func (s SessionState) Valid() bool {
	return s == SessionOpen || s == SessionClosed
}

// Session is one continuous occupancy of a space by a vehicle. ExitTime and
// Charge are set together when the session is closed and never before:
// ExitTime.Valid == Charge.Valid at all times.
type Session struct {
	ID        int        `json:"id"`
	SpaceID   int        `json:"space_id"`
	VehicleID int        `json:"vehicle_id"`
	EntryTime time.Time  `json:"entry_time"`
	ExitTime  null.Time  `json:"exit_time"`
	Charge    null.Float `json:"charge"`

	// Read-only snapshots joined in by the repository, not live references.
	Space   *Space   `json:"space,omitempty"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

func (s *Session) Open() bool { return !s.ExitTime.Valid }

func (s *Session) State() SessionState {
	if s.Open() {
		return SessionOpen
	}
	return SessionClosed
}

// ComputeCharge bills whole elapsed minutes as fractional hours at the given
// rate, rounded half-up to the cent. No minimum charge, no rounding up to
// whole hours; a zero-duration session bills 0.00.
func ComputeCharge(entry, exit time.Time, hourlyRate float64) float64 {
	minutes := exit.Sub(entry) / time.Minute
	hours := float64(minutes) / 60.0
	return math.Round(hours*hourlyRate*100) / 100
}

type OpenSessionDTO struct {
	SpaceID   int        `json:"space_id" binding:"required"`
	VehicleID int        `json:"vehicle_id" binding:"required"`
	EntryTime *time.Time `json:"entry_time"`
}

type CloseSessionDTO struct {
	ExitTime *time.Time `json:"exit_time"`
}

// UpdateSessionDTO is the administrative full overwrite; exit time and charge
// must be provided together or not at all.
type UpdateSessionDTO struct {
	SpaceID   int        `json:"space_id" binding:"required"`
	VehicleID int        `json:"vehicle_id" binding:"required"`
	EntryTime time.Time  `json:"entry_time" binding:"required"`
	ExitTime  *time.Time `json:"exit_time"`
	Charge    *float64   `json:"charge"`
}

// SessionFilterDTO carries the raw query parameters; dates use YYYY-MM-DD and
// bound the calendar date of the entry time, both ends inclusive.
type SessionFilterDTO struct {
	SpaceKind *string `form:"space_kind"`
	Status    *string `form:"status"`
	DateFrom  *string `form:"date_from"`
	DateTo    *string `form:"date_to"`
}

// SessionFilter is the validated form handed to the repository.
type SessionFilter struct {
	SpaceKind *SpaceKind
	Status    *SessionState
	DateFrom  *time.Time
	DateTo    *time.Time
}
