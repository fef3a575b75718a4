package postgres

import (
	"context"
	"database/sql"
	"errors"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

const userColumns = `id, email, nickname, first_name, middle_name, last_name, phone_number,
       id_card_number, driver_license_number, password_hash, avatar_url, device_token, created_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.FirstName, &u.MiddleName, &u.LastName,
		&u.PhoneNumber, &u.IDCardNumber, &u.DriverLicenseNumber, &u.PasswordHash,
		&u.AvatarURL, &u.DeviceToken, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
