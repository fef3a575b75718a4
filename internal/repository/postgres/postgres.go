package postgres

import (
	"database/sql"

	"driveshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.ContractRepository
	repository.VehicleRepository
	repository.UserRepository
	repository.NotificationRepository
	repository.ExpiryRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		ContractRepository:     NewContractRepository(db),
		VehicleRepository:      NewVehicleRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ExpiryRepository:       NewExpiryRepository(db),
	}
}
