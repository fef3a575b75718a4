package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/utils"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	expiryRepo  repository.ExpiryRepository
	emailSvc    EmailService
	notifier    Notifier
	log         *slog.Logger

	depositTimeout       time.Duration
	ownerDecisionTimeout time.Duration
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	expiryRepo repository.ExpiryRepository,
	emailSvc EmailService,
	notifier Notifier,
	depositTimeout time.Duration,
	ownerDecisionTimeout time.Duration,
) RentalService {
	return &rentalService{
		rentalRepo:           rentalRepo,
		vehicleRepo:          vehicleRepo,
		userRepo:             userRepo,
		expiryRepo:           expiryRepo,
		emailSvc:             emailSvc,
		notifier:             notifier,
		log:                  logger.WithService("rental-service"),
		depositTimeout:       depositTimeout,
		ownerDecisionTimeout: ownerDecisionTimeout,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, renterID, vehicleID int32, start, end time.Time, phoneNumber string) (*domain.Rental, error) {
	now := time.Now().UTC()
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) || start.Before(now) {
		return nil, ErrInvalidWindow
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if vehicle.Status != domain.VehicleStatusApproved {
		return nil, ErrVehicleNotApproved
	}
	if vehicle.OwnerID == renterID {
		return nil, ErrOwnVehicle
	}

	if phoneNumber == "" {
		renter, err := s.userRepo.GetByID(ctx, renterID)
		if err != nil {
			return nil, err
		}
		phoneNumber = renter.PhoneNumber
	}

	// The price snapshot is fixed here; later changes to the vehicle's daily
	// price never touch this rental.
	quote := utils.QuoteRental(vehicle.DailyPriceCents, start, end)

	rental := &domain.Rental{
		VehicleID:         vehicleID,
		VehicleOwnerID:    vehicle.OwnerID,
		RenterID:          renterID,
		RenterPhoneNumber: phoneNumber,
		StartDateTime:     start,
		EndDateTime:       end,
		TotalDays:         quote.TotalDays,
		DailyPriceCents:   vehicle.DailyPriceCents,
		TotalPriceCents:   quote.TotalPriceCents,
		DepositCents:      quote.DepositCents,
		Status:            domain.RentalStatusDepositPending,
		StatusHistory: []domain.StatusHistoryEntry{
			{Label: "Rental requested", At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.rentalRepo.CreateIfAvailable(ctx, rental); err != nil {
		if errors.Is(err, repository.ErrWindowConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.armExpiry(ctx, rental.ID, domain.RentalStatusDepositPending, now.Add(s.depositTimeout))

	// The owner hears about the request once the deposit is in; at this point
	// only the renter is told what to do next.
	s.notifyRenter(ctx, rental, domain.EventRentalRequested,
		fmt.Sprintf("Rental request created for %s, pay the deposit to hold the vehicle", vehicle.Title))

	return rental, nil
}

func (s *rentalService) PayDeposit(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusDepositPending {
		return nil, ErrInvalidState
	}
	if rt.RenterID != renterID {
		return nil, ErrForbidden
	}

	if _, err := s.transition(ctx, rentalID, domain.RentalStatusDepositPending, domain.RentalStatusDepositPaid, "Deposit paid"); err != nil {
		return nil, err
	}
	updated, err := s.transition(ctx, rentalID, domain.RentalStatusDepositPaid, domain.RentalStatusOwnerPending, "Waiting for owner decision")
	if err != nil {
		return nil, err
	}

	s.armExpiry(ctx, rentalID, domain.RentalStatusOwnerPending, time.Now().UTC().Add(s.ownerDecisionTimeout))

	s.notifyOwner(ctx, updated, domain.EventRentalRequested,
		"New rental request, deposit received, please approve or decline")
	if owner, renter := s.loadParties(ctx, updated); owner != nil && renter != nil {
		if vehicle, verr := s.vehicleRepo.GetByID(ctx, updated.VehicleID); verr == nil {
			_ = s.emailSvc.SendRentalRequested(ctx, owner.Email, owner.FullName(), renter.FullName(), vehicle.Title)
		}
	}

	return updated, nil
}

func (s *rentalService) OwnerDecide(ctx context.Context, ownerID, rentalID int32, approve bool) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusOwnerPending {
		return nil, ErrInvalidState
	}
	if rt.VehicleOwnerID != ownerID {
		return nil, ErrForbidden
	}

	if approve {
		updated, err := s.transition(ctx, rentalID, domain.RentalStatusOwnerPending, domain.RentalStatusOwnerApproved, "Owner approved the rental")
		if err != nil {
			return nil, err
		}
		s.notifyRenter(ctx, updated, domain.EventRentalUpdated, "The owner approved your rental request")
		s.emailDecision(ctx, updated, true)
		return updated, nil
	}

	if _, err := s.transition(ctx, rentalID, domain.RentalStatusOwnerPending, domain.RentalStatusCancelled, "Owner rejected the rental"); err != nil {
		return nil, err
	}
	updated, err := s.transition(ctx, rentalID, domain.RentalStatusCancelled, domain.RentalStatusDepositRefunded, "Deposit refunded")
	if err != nil {
		return nil, err
	}
	s.notifyRenter(ctx, updated, domain.EventRentalCancelled, "The owner declined your rental request, the deposit was refunded")
	s.emailDecision(ctx, updated, false)
	return updated, nil
}

func (s *rentalService) PayRemaining(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusContractSigned {
		return nil, ErrInvalidState
	}
	if rt.RenterID != renterID {
		return nil, ErrForbidden
	}

	updated, err := s.transition(ctx, rentalID, domain.RentalStatusContractSigned, domain.RentalStatusRemainingPaymentPaid, "Remaining payment paid")
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, updated, domain.EventRentalUpdated, "The renter paid the remaining amount")
	return updated, nil
}

func (s *rentalService) ConfirmHandOff(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusRemainingPaymentPaid {
		return nil, ErrInvalidState
	}
	if rt.VehicleOwnerID != ownerID {
		return nil, ErrForbidden
	}

	updated, err := s.transition(ctx, rentalID, domain.RentalStatusRemainingPaymentPaid, domain.RentalStatusRenterReceived, "Renter received the vehicle")
	if err != nil {
		return nil, err
	}
	s.notifyRenter(ctx, updated, domain.EventRentalUpdated, "The owner confirmed handing over the vehicle")
	return updated, nil
}

func (s *rentalService) ConfirmReturn(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusRenterReceived {
		return nil, ErrInvalidState
	}
	if rt.VehicleOwnerID != ownerID {
		return nil, ErrForbidden
	}

	if _, err := s.transition(ctx, rentalID, domain.RentalStatusRenterReceived, domain.RentalStatusRenterReturned, "Vehicle returned to the owner"); err != nil {
		return nil, err
	}
	updated, err := s.transition(ctx, rentalID, domain.RentalStatusRenterReturned, domain.RentalStatusCompleted, "Rental completed")
	if err != nil {
		return nil, err
	}
	s.notifyRenter(ctx, updated, domain.EventRentalUpdated, "The rental was completed, thanks for returning the vehicle")
	return updated, nil
}

// CancelRental withdraws a request before the deposit is paid. Everything
// later is either the owner's call, an expiry, or bound by the contract.
func (s *rentalService) CancelRental(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusDepositPending {
		return nil, ErrInvalidState
	}
	if rt.RenterID != renterID {
		return nil, ErrForbidden
	}

	updated, err := s.transition(ctx, rentalID, domain.RentalStatusDepositPending, domain.RentalStatusCancelled, "Rental cancelled by the renter")
	if err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, updated, domain.EventRentalCancelled, "The renter withdrew the rental request")
	if owner, _ := s.loadParties(ctx, updated); owner != nil {
		if vehicle, verr := s.vehicleRepo.GetByID(ctx, updated.VehicleID); verr == nil {
			_ = s.emailSvc.SendRentalCancelled(ctx, owner.Email, owner.FullName(), vehicle.Title, "The renter withdrew the request.")
		}
	}

	return updated, nil
}

func (s *rentalService) Expire(ctx context.Context, rentalID int32, expected domain.RentalStatus) error {
	switch expected {
	case domain.RentalStatusDepositPending:
		updated, err := s.transition(ctx, rentalID, domain.RentalStatusDepositPending, domain.RentalStatusCancelled, "Cancelled: deposit not paid in time")
		if errors.Is(err, ErrInvalidState) {
			// The rental moved on before the deadline fired. Nothing to do.
			return nil
		}
		if err != nil {
			return err
		}
		s.notifyRenter(ctx, updated, domain.EventRentalCancelled, "Your rental request expired because the deposit was not paid in time")
		return nil

	case domain.RentalStatusOwnerPending:
		if _, err := s.transition(ctx, rentalID, domain.RentalStatusOwnerPending, domain.RentalStatusCancelled, "Cancelled: owner did not respond in time"); err != nil {
			if !errors.Is(err, ErrInvalidState) {
				return err
			}
			// An earlier cancellation may have failed between its two steps,
			// leaving the rental parked in CANCELLED. A re-fire finishes the
			// refund; anywhere else this CAS no-ops as well.
			if _, rerr := s.transition(ctx, rentalID, domain.RentalStatusCancelled, domain.RentalStatusDepositRefunded, "Deposit refunded"); rerr != nil && !errors.Is(rerr, ErrInvalidState) {
				return rerr
			}
			return nil
		}
		updated, err := s.transition(ctx, rentalID, domain.RentalStatusCancelled, domain.RentalStatusDepositRefunded, "Deposit refunded")
		if err != nil {
			return err
		}
		s.notifyRenter(ctx, updated, domain.EventRentalCancelled, "Your rental request expired because the owner did not respond, the deposit was refunded")
		return nil
	}

	return nil
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	return rt, nil
}

func (s *rentalService) ListRentals(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.rentalRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *rentalService) ListLendings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.rentalRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

func (s *rentalService) ListMonthConflicts(ctx context.Context, vehicleID int32, month, year int) ([]repository.RentalWindow, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, ErrInvalidWindow
	}
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.rentalRepo.ListMonthConflicts(ctx, vehicleID, month, year)
}

func (s *rentalService) getRental(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// transition performs one compare-and-swap step of the workflow. A status
// mismatch means another actor or an expiry got there first; that surfaces as
// ErrInvalidState.
func (s *rentalService) transition(ctx context.Context, rentalID int32, from, to domain.RentalStatus, label string) (*domain.Rental, error) {
	entry := domain.StatusHistoryEntry{Label: label, At: time.Now().UTC()}
	updated, err := s.rentalRepo.UpdateStatus(ctx, rentalID, from, to, entry)
	if errors.Is(err, repository.ErrStatusMismatch) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// armExpiry records a deadline for the sweep job. Failure to arm is logged
// but does not fail the transition that just happened.
func (s *rentalService) armExpiry(ctx context.Context, rentalID int32, expected domain.RentalStatus, fireAt time.Time) {
	job := &domain.ScheduledCancellation{
		RentalID:       rentalID,
		ExpectedStatus: expected,
		FireAt:         fireAt,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.expiryRepo.Create(ctx, job); err != nil {
		s.log.Error("failed to schedule rental expiry", "rental_id", rentalID, "expected_status", expected, "error", err)
	}
}

func (s *rentalService) notifyOwner(ctx context.Context, rt *domain.Rental, kind domain.EventKind, message string) {
	s.notifier.Notify(ctx, rt.VehicleOwnerID, kind, message, rentalPayload(rt))
}

func (s *rentalService) notifyRenter(ctx context.Context, rt *domain.Rental, kind domain.EventKind, message string) {
	s.notifier.Notify(ctx, rt.RenterID, kind, message, rentalPayload(rt))
}

func (s *rentalService) loadParties(ctx context.Context, rt *domain.Rental) (owner, renter *domain.User) {
	owner, _ = s.userRepo.GetByID(ctx, rt.VehicleOwnerID)
	renter, _ = s.userRepo.GetByID(ctx, rt.RenterID)
	return owner, renter
}

func (s *rentalService) emailDecision(ctx context.Context, rt *domain.Rental, approved bool) {
	_, renter := s.loadParties(ctx, rt)
	if renter == nil {
		return
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendRentalDecision(ctx, renter.Email, renter.FullName(), vehicle.Title, approved)
}

func rentalPayload(rt *domain.Rental) map[string]string {
	return map[string]string{
		"rental_id": fmt.Sprintf("%d", rt.ID),
		"status":    string(rt.Status),
	}
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
