package domain

import "time"

type RentalStatus string

const (
	RentalStatusDepositPending       RentalStatus = "DEPOSIT_PENDING"
	RentalStatusDepositPaid          RentalStatus = "DEPOSIT_PAID"
	RentalStatusOwnerPending         RentalStatus = "OWNER_PENDING"
	RentalStatusOwnerApproved        RentalStatus = "OWNER_APPROVED"
	RentalStatusContractPending      RentalStatus = "CONTRACT_PENDING"
	RentalStatusContractSigned       RentalStatus = "CONTRACT_SIGNED"
	RentalStatusRemainingPaymentPaid RentalStatus = "REMAINING_PAYMENT_PAID"
	RentalStatusRenterReceived       RentalStatus = "RENTER_RECEIVED"
	RentalStatusRenterReturned       RentalStatus = "RENTER_RETURNED"
	RentalStatusCompleted            RentalStatus = "COMPLETED"
	RentalStatusCancelled            RentalStatus = "CANCELLED"
	RentalStatusDepositRefunded      RentalStatus = "DEPOSIT_REFUNDED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusCompleted, RentalStatusCancelled, RentalStatusDepositRefunded:
		return true
	}
	return false
}

// StatusHistoryEntry is one step of a rental's workflow timeline. The history
// is append-only; entries are never rewritten or reordered.
type StatusHistoryEntry struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

type Rental struct {
	ID                int32  `json:"id"`
	VehicleID         int32  `json:"vehicle_id"`
	VehicleOwnerID    int32  `json:"vehicle_owner_id"`
	RenterID          int32  `json:"renter_id"`
	RenterPhoneNumber string `json:"renter_phone_number"`
	// Rental window, UTC, half-open: end is exclusive for overlap purposes.
	StartDateTime time.Time `json:"start_datetime"`
	EndDateTime   time.Time `json:"end_datetime"`
	// Price snapshot fields — captured from the vehicle at booking time.
	// Never recomputed from the live vehicle price.
	TotalDays       int32                `json:"total_days"`
	DailyPriceCents int32                `json:"daily_price_cents"`
	TotalPriceCents int32                `json:"total_price_cents"`
	DepositCents    int32                `json:"deposit_cents"`
	Status          RentalStatus         `json:"status"`
	StatusHistory   []StatusHistoryEntry `json:"status_history"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// IsParticipant reports whether userID is the renter or the vehicle owner.
func (r *Rental) IsParticipant(userID int32) bool {
	return r.RenterID == userID || r.VehicleOwnerID == userID
}
