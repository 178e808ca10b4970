package events

import (
	"encoding/json"
	"time"
)

const (
	TableClaimed      = "table.claimed"
	TableLocked       = "table.locked"
	TableActivated    = "table.activated"
	TableReleased     = "table.released"
	OrderCreated      = "order.created"
	OrderTransitioned = "order.transitioned"
	StaffCallCreated  = "staffcall.created"
	StaffCallResolved = "staffcall.resolved"
	ReviewSubmitted   = "review.submitted"
)

// Envelope is the wire shape of every published domain event.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	RestaurantID string          `json:"restaurant_id"`
	AggregateID  string          `json:"aggregate_id"`
	Payload      json.RawMessage `json:"payload"`
}

type TablePayload struct {
	Table     string `json:"table"`
	TableName string `json:"table_name"`
	SessionID string `json:"session_id,omitempty"`
	Duration  *int   `json:"duration_minutes,omitempty"`
}

type OrderPayload struct {
	OrderID   uint    `json:"order_id"`
	Table     string  `json:"table"`
	SessionID string  `json:"session_id"`
	Action    string  `json:"action,omitempty"`
	State     string  `json:"state"`
	Total     float64 `json:"total"`
}

type StaffCallPayload struct {
	CallID    uint   `json:"call_id"`
	Table     string `json:"table"`
	SessionID string `json:"session_id,omitempty"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

type ReviewPayload struct {
	ReviewID  uint   `json:"review_id"`
	Rating    int    `json:"rating"`
	SessionID string `json:"session_id,omitempty"`
}
