package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) CreateIfAvailable(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.RentalStatus, entry domain.StatusHistoryEntry) (*domain.Rental, error) {
	args := m.Called(ctx, id, from, to, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) HasConflict(ctx context.Context, vehicleID int32, start, end time.Time, excludeRentalID int32) (bool, error) {
	args := m.Called(ctx, vehicleID, start, end, excludeRentalID)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) ListMonthConflicts(ctx context.Context, vehicleID int32, month, year int) ([]repository.RentalWindow, error) {
	args := m.Called(ctx, vehicleID, month, year)
	return args.Get(0).([]repository.RentalWindow), args.Error(1)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}
func (m *MockContractRepo) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Contract, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Contract), args.Error(1)
}
func (m *MockContractRepo) UpdateSignerStatus(ctx context.Context, id string, role domain.SignerRole, status domain.ContractStatus) (*domain.Contract, error) {
	args := m.Called(ctx, id, role, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockExpiryRepo
type MockExpiryRepo struct {
	mock.Mock
}

func (m *MockExpiryRepo) Create(ctx context.Context, job *domain.ScheduledCancellation) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
func (m *MockExpiryRepo) ListDue(ctx context.Context, now time.Time, limit int32) ([]domain.ScheduledCancellation, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.ScheduledCancellation), args.Error(1)
}
func (m *MockExpiryRepo) MarkFired(ctx context.Context, id int64, firedAt time.Time) error {
	args := m.Called(ctx, id, firedAt)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalRequested(ctx context.Context, toEmail, toName, renterName, vehicleTitle string) error {
	args := m.Called(ctx, toEmail, toName, renterName, vehicleTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalDecision(ctx context.Context, toEmail, toName, vehicleTitle string, approved bool) error {
	args := m.Called(ctx, toEmail, toName, vehicleTitle, approved)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCancelled(ctx context.Context, toEmail, toName, vehicleTitle, reason string) error {
	args := m.Called(ctx, toEmail, toName, vehicleTitle, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendContractCreated(ctx context.Context, toEmail, toName, vehicleTitle string) error {
	args := m.Called(ctx, toEmail, toName, vehicleTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendContractResolved(ctx context.Context, toEmail, toName, vehicleTitle string, signed bool) error {
	args := m.Called(ctx, toEmail, toName, vehicleTitle, signed)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int32, kind domain.EventKind, message string, payload map[string]string) {
	m.Called(ctx, userID, kind, message, payload)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.String(2), args.Error(3)
}
func (m *MockAuthService) VerifyCredential(ctx context.Context, userID int32, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	args := m.Called(ctx, deviceToken, title, body, data)
	return args.Error(0)
}
