package postgres

import (
	"context"
	"database/sql"
	"errors"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, owner_id, title, brand, model, year, color, registration_id,
	                 city, district, ward, address, daily_price_cents, status, created_at, updated_at
	          FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.OwnerID, &v.Title, &v.Brand, &v.Model,
		&v.Year, &v.Color, &v.RegistrationID, &v.City, &v.District, &v.Ward, &v.Address,
		&v.DailyPriceCents, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
