package domain

import "time"

// EventKind identifies what happened; it travels in the notification payload
// so clients can route without parsing the message text.
type EventKind string

const (
	EventRentalRequested EventKind = "RENTAL_REQUESTED"
	EventRentalUpdated   EventKind = "RENTAL_UPDATED"
	EventRentalCancelled EventKind = "RENTAL_CANCELLED"
	EventContractCreated EventKind = "CONTRACT_CREATED"
	EventContractUpdated EventKind = "CONTRACT_UPDATED"
)

type Notification struct {
	ID        int32             `json:"id"`
	UserID    int32             `json:"user_id"`
	Kind      EventKind         `json:"kind"`
	Message   string            `json:"message"`
	Payload   map[string]string `json:"payload"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}
