package repository

import (
	"context"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
)

// Errors surfaced by repositories so services can map them to domain errors
// without inspecting SQL details.
var (
	// ErrNotFound: no row matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrStatusMismatch: a compare-and-swap update matched zero rows because
	// the record is no longer in the expected status. This is the guard that
	// makes concurrent transitions and duplicate expiry jobs safe.
	ErrStatusMismatch = errors.New("status precondition failed")
	// ErrWindowConflict: an overlapping rental blocked the insert.
	ErrWindowConflict = errors.New("overlapping rental exists")
)

// RentalWindow is a bare occupied window, returned by calendar queries.
type RentalWindow struct {
	StartDateTime time.Time `json:"start_datetime"`
	EndDateTime   time.Time `json:"end_datetime"`
}

type RentalRepository interface {
	// CreateIfAvailable inserts the rental only if no overlapping rental
	// exists for the vehicle. The conflict check and the insert run in one
	// transaction under a per-vehicle advisory lock, so two renters can never
	// both pass the check for overlapping windows.
	CreateIfAvailable(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// UpdateStatus moves the rental from one status to another and appends
	// one history entry, atomically, only when the current status still
	// equals from. Returns ErrStatusMismatch otherwise.
	UpdateStatus(ctx context.Context, id int32, from, to domain.RentalStatus, entry domain.StatusHistoryEntry) (*domain.Rental, error)
	HasConflict(ctx context.Context, vehicleID int32, start, end time.Time, excludeRentalID int32) (bool, error)
	ListMonthConflicts(ctx context.Context, vehicleID int32, month, year int) ([]RentalWindow, error)
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Contract, error)
	// UpdateSignerStatus sets one signer slot, guarded on the slot still
	// being PENDING, and derives the aggregate from the stored slot values in
	// the same statement. It returns the updated row, or ErrStatusMismatch
	// when the signer has already decided.
	UpdateSignerStatus(ctx context.Context, id string, role domain.SignerRole, status domain.ContractStatus) (*domain.Contract, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type NotificationRepository interface {
	// Create persists a notification, evicting the user's oldest one when
	// the retention cap is reached.
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type ExpiryRepository interface {
	Create(ctx context.Context, job *domain.ScheduledCancellation) error
	// ListDue returns unfired jobs whose fire time has passed.
	ListDue(ctx context.Context, now time.Time, limit int32) ([]domain.ScheduledCancellation, error)
	MarkFired(ctx context.Context, id int64, firedAt time.Time) error
}
