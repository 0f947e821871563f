package domain

import (
	"time"
)

type AgentStatus string

const (
	AgentAvailable   AgentStatus = "available"
	AgentScheduled   AgentStatus = "scheduled"
	AgentUnavailable AgentStatus = "unavailable"
)

// Agent is a field worker that shifts are scheduled for. IDs are opaque
// strings: new agents get a UUID, rows migrated from the previous
// datastore keep their original hex identifiers.
type Agent struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	Status     AgentStatus `json:"status"`
	HourlyRate float64     `json:"hourlyRate"`
	TenantID   int64       `json:"tenantId"`
	CreatedAt  time.Time   `json:"createdAt"`
	Version    int32       `json:"-"`
}
