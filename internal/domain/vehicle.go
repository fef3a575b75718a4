package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusPending  VehicleStatus = "PENDING"
	VehicleStatusApproved VehicleStatus = "APPROVED"
	VehicleStatusRejected VehicleStatus = "REJECTED"
	VehicleStatusHidden   VehicleStatus = "HIDDEN"
)

type Vehicle struct {
	ID              int32         `json:"id"`
	OwnerID         int32         `json:"owner_id"`
	Title           string        `json:"title"`
	Brand           string        `json:"brand"`
	Model           string        `json:"model"`
	Year            int32         `json:"year"`
	Color           string        `json:"color"`
	RegistrationID  string        `json:"registration_id"`
	City            string        `json:"city"`
	District        string        `json:"district"`
	Ward            string        `json:"ward"`
	Address         string        `json:"address"`
	DailyPriceCents int32         `json:"daily_price_cents"`
	Status          VehicleStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
