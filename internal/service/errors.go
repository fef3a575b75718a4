package service

import "errors"

// Domain-level error values returned by the booking services. The HTTP layer
// maps each to a distinct status code; they are never collapsed into a
// generic failure.
var (
	// ErrNotFound: rental, contract, vehicle or user absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: actor is not a participant or lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState: transition attempted from a status that does not match
	// the required source status. Covers stale client retries and post-expiry
	// races; the caller's view was out of date.
	ErrInvalidState = errors.New("rental has already moved on")
	// ErrInvalidWindow: end <= start, or the window lies in the past.
	ErrInvalidWindow = errors.New("invalid rental window")
	// ErrConflict: an overlapping reservation already exists for the vehicle.
	ErrConflict = errors.New("vehicle is not available for the requested window")
	// ErrVehicleNotApproved: only APPROVED vehicles can be booked.
	ErrVehicleNotApproved = errors.New("vehicle is not approved")
	// ErrOwnVehicle: owners cannot rent their own vehicle.
	ErrOwnVehicle = errors.New("owner cannot rent their own vehicle")
	// ErrCredentialInvalid: signing re-authentication failed.
	ErrCredentialInvalid = errors.New("credential verification failed")
)
