package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

// contractIDPrefix tags contract identifiers so they are recognizable in
// logs and payloads next to numeric rental ids.
const contractIDPrefix = "[CONTRACT]"

type contractService struct {
	contractRepo repository.ContractRepository
	rentalRepo   repository.RentalRepository
	vehicleRepo  repository.VehicleRepository
	userRepo     repository.UserRepository
	authSvc      AuthService
	emailSvc     EmailService
	notifier     Notifier
	log          *slog.Logger
}

func NewContractService(
	contractRepo repository.ContractRepository,
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	authSvc AuthService,
	emailSvc EmailService,
	notifier Notifier,
) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		rentalRepo:   rentalRepo,
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		authSvc:      authSvc,
		emailSvc:     emailSvc,
		notifier:     notifier,
		log:          logger.WithService("contract-service"),
	}
}

func (s *contractService) PrepareContract(ctx context.Context, ownerID, rentalID int32) (*domain.ContractData, error) {
	rt, err := s.loadRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusOwnerApproved {
		return nil, ErrInvalidState
	}
	if rt.VehicleOwnerID != ownerID {
		return nil, ErrForbidden
	}
	return s.buildContractData(ctx, rt, "")
}

func (s *contractService) CreateContract(ctx context.Context, ownerID, rentalID int32, conditionNotes string) (*domain.Contract, error) {
	rt, err := s.loadRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.Status != domain.RentalStatusOwnerApproved {
		return nil, ErrInvalidState
	}
	if rt.VehicleOwnerID != ownerID {
		return nil, ErrForbidden
	}

	data, err := s.buildContractData(ctx, rt, conditionNotes)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contract id: %w", err)
	}

	contract := &domain.Contract{
		ID:             contractIDPrefix + id.String(),
		RentalID:       rentalID,
		ContractData:   *data,
		RenterStatus:   domain.ContractStatusPending,
		OwnerStatus:    domain.ContractStatusPending,
		ContractStatus: domain.ContractStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	updated, err := s.rentalTransition(ctx, rentalID, domain.RentalStatusOwnerApproved, domain.RentalStatusContractPending, "Contract created, waiting for signatures")
	if err != nil {
		return nil, err
	}

	msg := "The rental contract is ready to sign"
	s.notifier.Notify(ctx, updated.RenterID, domain.EventContractCreated, msg, contractPayload(contract, updated))
	s.notifier.Notify(ctx, updated.VehicleOwnerID, domain.EventContractCreated, msg, contractPayload(contract, updated))
	s.emailBothParties(ctx, updated, func(to *domain.User, vehicleTitle string) error {
		return s.emailSvc.SendContractCreated(ctx, to.Email, to.FullName(), vehicleTitle)
	})

	return contract, nil
}

func (s *contractService) SignContract(ctx context.Context, userID int32, contractID string, decision domain.ContractStatus, password string) (*domain.Contract, error) {
	if decision != domain.ContractStatusSigned && decision != domain.ContractStatusRejected {
		return nil, fmt.Errorf("unsupported signing decision %q", decision)
	}

	contract, err := s.loadContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	rt, err := s.loadRental(ctx, contract.RentalID)
	if err != nil {
		return nil, err
	}
	// A fully signed contract is immutable. A rejected one still accepts the
	// non-deciding party's signature; the aggregate stays REJECTED and the
	// per-slot guard below blocks anyone from signing twice.
	if contract.ContractStatus == domain.ContractStatusSigned {
		return nil, ErrInvalidState
	}
	if !rt.IsParticipant(userID) {
		return nil, ErrForbidden
	}

	role := domain.SignerRoleOwner
	if userID == rt.RenterID {
		role = domain.SignerRoleRenter
	}

	// A signature is a legal act, so the signer proves the password again
	// even with a valid session token.
	if err := s.authSvc.VerifyCredential(ctx, userID, password); err != nil {
		return nil, err
	}

	// The repository derives the aggregate from the stored slot values, so
	// the returned row is authoritative even when the counterparty signed
	// after our read above.
	updated, err := s.contractRepo.UpdateSignerStatus(ctx, contractID, role, decision)
	if errors.Is(err, repository.ErrStatusMismatch) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, err
	}

	switch updated.ContractStatus {
	case domain.ContractStatusSigned:
		rental, terr := s.rentalTransition(ctx, rt.ID, domain.RentalStatusContractPending, domain.RentalStatusContractSigned, "Contract signed by both parties")
		if terr != nil {
			return nil, terr
		}
		msg := "Both parties signed the contract"
		s.notifier.Notify(ctx, rental.RenterID, domain.EventContractUpdated, msg, contractPayload(updated, rental))
		s.notifier.Notify(ctx, rental.VehicleOwnerID, domain.EventContractUpdated, msg, contractPayload(updated, rental))
		s.emailBothParties(ctx, rental, func(to *domain.User, vehicleTitle string) error {
			return s.emailSvc.SendContractResolved(ctx, to.Email, to.FullName(), vehicleTitle, true)
		})

	case domain.ContractStatusRejected:
		if decision != domain.ContractStatusRejected {
			// A late signature on an already rejected contract. The first
			// rejection cancelled and refunded the rental, only the slot
			// needed recording.
			return updated, nil
		}
		rental, terr := s.rentalTransition(ctx, rt.ID, domain.RentalStatusContractPending, domain.RentalStatusCancelled, "Contract rejected, rental cancelled")
		if errors.Is(terr, ErrInvalidState) {
			// The counterparty's rejection already cancelled the rental.
			return updated, nil
		}
		if terr != nil {
			return nil, terr
		}
		rental, terr = s.rentalTransition(ctx, rt.ID, domain.RentalStatusCancelled, domain.RentalStatusDepositRefunded, "Deposit refunded")
		if terr != nil {
			return nil, terr
		}
		msg := "The contract was rejected, the rental was cancelled"
		s.notifier.Notify(ctx, rental.RenterID, domain.EventContractUpdated, msg, contractPayload(updated, rental))
		s.notifier.Notify(ctx, rental.VehicleOwnerID, domain.EventContractUpdated, msg, contractPayload(updated, rental))
		s.emailBothParties(ctx, rental, func(to *domain.User, vehicleTitle string) error {
			return s.emailSvc.SendContractResolved(ctx, to.Email, to.FullName(), vehicleTitle, false)
		})

	default:
		msg := "The counterparty is still reviewing the contract"
		counterparty := rt.RenterID
		if role == domain.SignerRoleRenter {
			counterparty = rt.VehicleOwnerID
		}
		s.notifier.Notify(ctx, counterparty, domain.EventContractUpdated, msg, contractPayload(updated, rt))
	}

	return updated, nil
}

func (s *contractService) GetContract(ctx context.Context, userID int32, contractID string) (*domain.Contract, error) {
	contract, err := s.loadContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	rt, err := s.loadRental(ctx, contract.RentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	return contract, nil
}

func (s *contractService) ListContractsByRental(ctx context.Context, userID, rentalID int32) ([]domain.Contract, error) {
	rt, err := s.loadRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	return s.contractRepo.ListByRental(ctx, rentalID)
}

func (s *contractService) buildContractData(ctx context.Context, rt *domain.Rental, conditionNotes string) (*domain.ContractData, error) {
	renter, err := s.userRepo.GetByID(ctx, rt.RenterID)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, rt.VehicleOwnerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.ContractData{
		ContractDate: domain.ContractDate{
			Day:   now.Day(),
			Month: int(now.Month()),
			Year:  now.Year(),
		},
		Renter: domain.PartyInfo{
			Name:                renter.FullName(),
			PhoneNumber:         rt.RenterPhoneNumber,
			IDCardNumber:        renter.IDCardNumber,
			DriverLicenseNumber: renter.DriverLicenseNumber,
		},
		VehicleOwner: domain.PartyInfo{
			Name:         owner.FullName(),
			PhoneNumber:  owner.PhoneNumber,
			IDCardNumber: owner.IDCardNumber,
		},
		Vehicle: domain.VehicleInfo{
			Brand:          vehicle.Brand,
			Model:          vehicle.Model,
			Year:           vehicle.Year,
			Color:          vehicle.Color,
			RegistrationID: vehicle.RegistrationID,
		},
		Address: domain.ContractAddress{
			City:     vehicle.City,
			District: vehicle.District,
			Ward:     vehicle.Ward,
			Address:  vehicle.Address,
		},
		Rental: domain.RentalTermsInfo{
			StartDateTime:   rt.StartDateTime,
			EndDateTime:     rt.EndDateTime,
			TotalDays:       rt.TotalDays,
			TotalPriceCents: rt.TotalPriceCents,
			DepositCents:    rt.DepositCents,
		},
		ConditionNotes: conditionNotes,
	}, nil
}

func (s *contractService) loadContract(ctx context.Context, contractID string) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) loadRental(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *contractService) rentalTransition(ctx context.Context, rentalID int32, from, to domain.RentalStatus, label string) (*domain.Rental, error) {
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

func (s *contractService) emailBothParties(ctx context.Context, rt *domain.Rental, send func(to *domain.User, vehicleTitle string) error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID)
	if err != nil {
		s.log.Warn("failed to load vehicle for contract email", "rental_id", rt.ID, "error", err)
		return
	}
	for _, userID := range []int32{rt.RenterID, rt.VehicleOwnerID} {
		user, uerr := s.userRepo.GetByID(ctx, userID)
		if uerr != nil {
			s.log.Warn("failed to load user for contract email", "user_id", userID, "error", uerr)
			continue
		}
		if serr := send(user, vehicle.Title); serr != nil {
			s.log.Warn("failed to send contract email", "user_id", userID, "error", serr)
		}
	}
}

func contractPayload(contract *domain.Contract, rt *domain.Rental) map[string]string {
	return map[string]string{
		"contract_id": contract.ID,
		"rental_id":   fmt.Sprintf("%d", rt.ID),
		"status":      string(rt.Status),
	}
}
