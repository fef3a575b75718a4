package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type expiryRepository struct {
	db *sql.DB
}

func NewExpiryRepository(db *sql.DB) repository.ExpiryRepository {
	return &expiryRepository{db: db}
}

func (r *expiryRepository) Create(ctx context.Context, job *domain.ScheduledCancellation) error {
	query := `INSERT INTO scheduled_cancellations (rental_id, expected_status, fire_at, created_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, job.RentalID, job.ExpectedStatus, job.FireAt, job.CreatedAt).Scan(&job.ID)
}

func (r *expiryRepository) ListDue(ctx context.Context, now time.Time, limit int32) ([]domain.ScheduledCancellation, error) {
	query := `SELECT id, rental_id, expected_status, fire_at, fired_at, created_at
	          FROM scheduled_cancellations
	          WHERE fired_at IS NULL AND fire_at <= $1
	          ORDER BY fire_at ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.ScheduledCancellation
	for rows.Next() {
		var j domain.ScheduledCancellation
		var firedAt sql.NullTime
		if err := rows.Scan(&j.ID, &j.RentalID, &j.ExpectedStatus, &j.FireAt, &firedAt, &j.CreatedAt); err != nil {
			return nil, err
		}
		if firedAt.Valid {
			t := firedAt.Time
			j.FiredAt = &t
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *expiryRepository) MarkFired(ctx context.Context, id int64, firedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scheduled_cancellations SET fired_at = $1 WHERE id = $2`, firedAt, id)
	return err
}
