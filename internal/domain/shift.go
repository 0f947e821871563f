package domain

import (
	"time"
)

// Shift is one scheduled work interval for one agent on one day.
//
// Date and EndDate are local calendar days in YYYY-MM-DD form, Start and
// End are local wall-clock times in HH:mm form; keeping them as strings
// makes range filters plain lexicographic comparisons, matching how the
// data was stored historically. EndDate is only set when the shift runs
// past midnight.
//
// The tuple (AgentRef, Date, Start, TenantID) is unique: repeated
// generation of the same slot must collapse to a single row.
type Shift struct {
	ID            int64     `json:"id"`
	AgentRef      string    `json:"agentId"`
	TenantID      int64     `json:"tenantId"`
	Date          string    `json:"date"`
	EndDate       *string   `json:"endDate,omitempty"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	DurationHours float64   `json:"durationHours"`
	IsOvernight   bool      `json:"isOvernight"`
	Is24h         bool      `json:"is24h"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}
