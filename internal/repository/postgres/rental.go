package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

// Advisory lock class for rental creation, keyed with the vehicle id so the
// conflict check and the insert form one critical section per vehicle.
const rentalLockClass = 4201

const rentalColumns = `id, vehicle_id, vehicle_owner_id, renter_id, renter_phone_number,
       start_datetime, end_datetime, total_days, daily_price_cents, total_price_cents,
       deposit_cents, status, status_history, created_at, updated_at`

// Statuses that do not bind the vehicle's calendar.
const nonBindingStatuses = `('CANCELLED', 'DEPOSIT_REFUNDED')`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) CreateIfAvailable(ctx context.Context, rt *domain.Rental) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rental create tx: %w", err)
	}
	defer tx.Rollback()

	// Serialize check-and-insert per vehicle. The lock is released at commit
	// or rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, rentalLockClass, rt.VehicleID); err != nil {
		return fmt.Errorf("acquire vehicle lock: %w", err)
	}

	var conflicts int32
	conflictQuery := `SELECT count(*) FROM rentals
	                  WHERE vehicle_id = $1 AND status NOT IN ` + nonBindingStatuses + `
	                    AND start_datetime < $3 AND end_datetime > $2`
	if err := tx.QueryRowContext(ctx, conflictQuery, rt.VehicleID, rt.StartDateTime, rt.EndDateTime).Scan(&conflicts); err != nil {
		return fmt.Errorf("count conflicting rentals: %w", err)
	}
	if conflicts > 0 {
		return repository.ErrWindowConflict
	}

	history, err := json.Marshal(rt.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	insert := `INSERT INTO rentals (vehicle_id, vehicle_owner_id, renter_id, renter_phone_number,
	             start_datetime, end_datetime, total_days, daily_price_cents, total_price_cents,
	             deposit_cents, status, status_history, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	err = tx.QueryRowContext(ctx, insert,
		rt.VehicleID, rt.VehicleOwnerID, rt.RenterID, rt.RenterPhoneNumber,
		rt.StartDateTime, rt.EndDateTime, rt.TotalDays, rt.DailyPriceCents, rt.TotalPriceCents,
		rt.DepositCents, rt.Status, history, rt.CreatedAt, rt.UpdatedAt,
	).Scan(&rt.ID)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}

	return tx.Commit()
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return rt, err
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.RentalStatus, entry domain.StatusHistoryEntry) (*domain.Rental, error) {
	entryJSON, err := json.Marshal([]domain.StatusHistoryEntry{entry})
	if err != nil {
		return nil, fmt.Errorf("marshal history entry: %w", err)
	}

	// Compare-and-swap on status. Matching zero rows means the rental moved
	// on (or never existed); the caller decides whether that is an error or
	// an expected no-op.
	query := `UPDATE rentals
	          SET status = $1, status_history = status_history || $2::jsonb, updated_at = $3
	          WHERE id = $4 AND status = $5
	          RETURNING ` + rentalColumns
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, to, entryJSON, time.Now().UTC(), id, from))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrStatusMismatch
	}
	return rt, err
}

func (r *rentalRepository) HasConflict(ctx context.Context, vehicleID int32, start, end time.Time, excludeRentalID int32) (bool, error) {
	query := `SELECT count(*) FROM rentals
	          WHERE vehicle_id = $1 AND status NOT IN ` + nonBindingStatuses + `
	            AND start_datetime < $3 AND end_datetime > $2 AND id <> $4`
	var count int32
	if err := r.db.QueryRowContext(ctx, query, vehicleID, start, end, excludeRentalID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *rentalRepository) ListMonthConflicts(ctx context.Context, vehicleID int32, month, year int) ([]repository.RentalWindow, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `SELECT start_datetime, end_datetime FROM rentals
	          WHERE vehicle_id = $1 AND status NOT IN ` + nonBindingStatuses + `
	            AND start_datetime < $3 AND end_datetime > $2
	          ORDER BY start_datetime`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []repository.RentalWindow
	for rows.Next() {
		var w repository.RentalWindow
		if err := rows.Scan(&w.StartDateTime, &w.EndDateTime); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "vehicle_owner_id", ownerID, status, page, pageSize)
}

func (r *rentalRepository) list(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM rentals WHERE ` + column + ` = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + rentalColumns + " " + base + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var history []byte
	err := row.Scan(&rt.ID, &rt.VehicleID, &rt.VehicleOwnerID, &rt.RenterID, &rt.RenterPhoneNumber,
		&rt.StartDateTime, &rt.EndDateTime, &rt.TotalDays, &rt.DailyPriceCents, &rt.TotalPriceCents,
		&rt.DepositCents, &rt.Status, &history, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &rt.StatusHistory); err != nil {
			return nil, fmt.Errorf("unmarshal status history: %w", err)
		}
	}
	return rt, nil
}
