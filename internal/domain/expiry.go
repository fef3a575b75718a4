package domain

import "time"

// ScheduledCancellation is a deferred "cancel-if-still-pending" job. Firing
// after the rental has left ExpectedStatus is a defined no-op, so rows are
// never revoked when a rental advances.
type ScheduledCancellation struct {
	ID             int64        `json:"id"`
	RentalID       int32        `json:"rental_id"`
	ExpectedStatus RentalStatus `json:"expected_status"`
	FireAt         time.Time    `json:"fire_at"`
	FiredAt        *time.Time   `json:"fired_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
