package domain

// Event is a fire-and-forget data-update notification published after a
// successful mutation. Delivery is best effort and never affects the
// outcome of the operation that produced it.
type Event struct {
	Type   string `json:"type"`   // "agent", "shift", "schedule"
	Action string `json:"action"` // "create", "update", "delete", "bulk-delete", "generate"
	Data   any    `json:"data,omitempty"`
}
