package domain

import "time"

type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "PENDING"
	ContractStatusSigned   ContractStatus = "SIGNED"
	ContractStatusRejected ContractStatus = "REJECTED"
)

// SignerRole distinguishes the two independent signer slots on a contract.
type SignerRole string

const (
	SignerRoleRenter SignerRole = "RENTER"
	SignerRoleOwner  SignerRole = "OWNER"
)

// ContractData is the immutable snapshot fixed when the contract is created.
// It is persisted as jsonb and never updated afterwards.
type ContractData struct {
	ContractDate   ContractDate    `json:"contract_date"`
	Renter         PartyInfo       `json:"renter"`
	VehicleOwner   PartyInfo       `json:"vehicle_owner"`
	Vehicle        VehicleInfo     `json:"vehicle"`
	Address        ContractAddress `json:"address"`
	Rental         RentalTermsInfo `json:"rental"`
	ConditionNotes string          `json:"condition_notes,omitempty"`
}

type ContractDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

type PartyInfo struct {
	Name                string `json:"name"`
	PhoneNumber         string `json:"phone_number"`
	IDCardNumber        string `json:"id_card_number"`
	DriverLicenseNumber string `json:"driver_license_number,omitempty"`
}

type VehicleInfo struct {
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Year           int32  `json:"year"`
	Color          string `json:"color"`
	RegistrationID string `json:"registration_id"`
}

type ContractAddress struct {
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Address  string `json:"address"`
}

type RentalTermsInfo struct {
	StartDateTime   time.Time `json:"start_datetime"`
	EndDateTime     time.Time `json:"end_datetime"`
	TotalDays       int32     `json:"total_days"`
	TotalPriceCents int32     `json:"total_price_cents"`
	DepositCents    int32     `json:"deposit_cents"`
}

type Contract struct {
	ID           string         `json:"id"`
	RentalID     int32          `json:"rental_id"`
	ContractData ContractData   `json:"contract_data"`
	RenterStatus ContractStatus `json:"renter_status"`
	OwnerStatus  ContractStatus `json:"owner_status"`
	// ContractStatus is always ResolveContractStatus(RenterStatus, OwnerStatus).
	ContractStatus ContractStatus `json:"contract_status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ResolveContractStatus reduces the two signer statuses into the aggregate.
// REJECTED is sticky: either side rejecting settles the aggregate, and a
// later sign from the other side cannot undo it.
func ResolveContractStatus(renter, owner ContractStatus) ContractStatus {
	if renter == ContractStatusRejected || owner == ContractStatusRejected {
		return ContractStatusRejected
	}
	if renter == ContractStatusSigned && owner == ContractStatusSigned {
		return ContractStatusSigned
	}
	return ContractStatusPending
}
