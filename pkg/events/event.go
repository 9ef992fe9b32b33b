package events

import "time"

// Moderation event kinds, one per terminal decision.
const (
	KindBusRequestApproved = "bus_request.approved"
	KindBusRequestRejected = "bus_request.rejected"
	KindEditApproved       = "bus_edit.approved"
	KindEditRejected       = "bus_edit.rejected"
)

// ModerationEvent records a terminal moderation decision. Published
// best-effort; downstream consumers (notifications, audit) must tolerate
// gaps.
type ModerationEvent struct {
	EventID   string    `json:"eventId"`
	Kind      string    `json:"kind"`
	RequestID string    `json:"requestId"`
	BusID     string    `json:"busId,omitempty"`
	BusNumber string    `json:"busNumber,omitempty"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}
