package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error) // user, access, refresh
	// VerifyCredential re-checks the password of an already authenticated
	// user. Signing a contract requires it regardless of session state.
	VerifyCredential(ctx context.Context, userID int32, password string) error
}

type RentalService interface {
	CreateRental(ctx context.Context, renterID, vehicleID int32, start, end time.Time, phoneNumber string) (*domain.Rental, error)
	PayDeposit(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	OwnerDecide(ctx context.Context, ownerID, rentalID int32, approve bool) (*domain.Rental, error)
	PayRemaining(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	ConfirmHandOff(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	ConfirmReturn(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error)
	CancelRental(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)
	// Expire fires a scheduled cancellation. It is a no-op when the rental has
	// already left the expected status, so duplicate or late firings are safe.
	Expire(ctx context.Context, rentalID int32, expected domain.RentalStatus) error
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListLendings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListMonthConflicts(ctx context.Context, vehicleID int32, month, year int) ([]repository.RentalWindow, error)
}

type ContractService interface {
	// PrepareContract returns the snapshot that a contract created now would
	// carry, without persisting anything. The owner reviews it before creating.
	PrepareContract(ctx context.Context, ownerID, rentalID int32) (*domain.ContractData, error)
	CreateContract(ctx context.Context, ownerID, rentalID int32, conditionNotes string) (*domain.Contract, error)
	SignContract(ctx context.Context, userID int32, contractID string, decision domain.ContractStatus, password string) (*domain.Contract, error)
	GetContract(ctx context.Context, userID int32, contractID string) (*domain.Contract, error)
	ListContractsByRental(ctx context.Context, userID, rentalID int32) ([]domain.Contract, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// Notifier delivers an in-app notification plus a best-effort push. Delivery
// failures are logged and swallowed; a dead push channel must never fail a
// booking transition.
type Notifier interface {
	Notify(ctx context.Context, userID int32, kind domain.EventKind, message string, payload map[string]string)
}

type EmailService interface {
	SendRentalRequested(ctx context.Context, toEmail, toName, renterName, vehicleTitle string) error
	SendRentalDecision(ctx context.Context, toEmail, toName, vehicleTitle string, approved bool) error
	SendRentalCancelled(ctx context.Context, toEmail, toName, vehicleTitle, reason string) error
	SendContractCreated(ctx context.Context, toEmail, toName, vehicleTitle string) error
	SendContractResolved(ctx context.Context, toEmail, toName, vehicleTitle string, signed bool) error
}

// RealtimePublisher pushes an event to a user's device. Implementations must
// tolerate an empty device token.
type RealtimePublisher interface {
	Publish(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}
