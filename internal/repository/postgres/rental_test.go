package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

var rentalRows = []string{
	"id", "vehicle_id", "vehicle_owner_id", "renter_id", "renter_phone_number",
	"start_datetime", "end_datetime", "total_days", "daily_price_cents", "total_price_cents",
	"deposit_cents", "status", "status_history", "created_at", "updated_at",
}

func sampleRentalRow(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	history := []byte(`[{"label":"Rental requested","at":"2026-08-01T10:00:00Z"}]`)
	return sqlmock.NewRows(rentalRows).
		AddRow(7, 2, 10, 1, "555-0100", now, now.Add(72*time.Hour), 3, 10000, 30000, 9000, status, history, now, now)
}

func TestRentalRepository_CreateIfAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rental := &domain.Rental{
		VehicleID:         2,
		VehicleOwnerID:    10,
		RenterID:          1,
		RenterPhoneNumber: "555-0100",
		StartDateTime:     now.Add(24 * time.Hour),
		EndDateTime:       now.Add(96 * time.Hour),
		TotalDays:         3,
		DailyPriceCents:   10000,
		TotalPriceCents:   30000,
		DepositCents:      9000,
		Status:            domain.RentalStatusDepositPending,
		StatusHistory:     []domain.StatusHistoryEntry{{Label: "Rental requested", At: now}},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(rentalLockClass, rental.VehicleID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM rentals`).
			WithArgs(rental.VehicleID, rental.StartDateTime, rental.EndDateTime).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectCommit()

		err := repo.CreateIfAvailable(ctx, rental)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), rental.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overlapping rental blocks insert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(rentalLockClass, rental.VehicleID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM rentals`).
			WithArgs(rental.VehicleID, rental.StartDateTime, rental.EndDateTime).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.CreateIfAvailable(ctx, rental)
		assert.ErrorIs(t, err, repository.ErrWindowConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()
	entry := domain.StatusHistoryEntry{Label: "Deposit paid", At: time.Now().UTC()}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE rentals").
			WithArgs(domain.RentalStatusDepositPaid, sqlmock.AnyArg(), sqlmock.AnyArg(), int32(7), domain.RentalStatusDepositPending).
			WillReturnRows(sampleRentalRow("DEPOSIT_PAID"))

		rt, err := repo.UpdateStatus(ctx, 7, domain.RentalStatusDepositPending, domain.RentalStatusDepositPaid, entry)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusDepositPaid, rt.Status)
		assert.Len(t, rt.StatusHistory, 1)
	})

	t.Run("Status moved on", func(t *testing.T) {
		mock.ExpectQuery("UPDATE rentals").
			WithArgs(domain.RentalStatusDepositPaid, sqlmock.AnyArg(), sqlmock.AnyArg(), int32(7), domain.RentalStatusDepositPending).
			WillReturnRows(sqlmock.NewRows(rentalRows))

		_, err := repo.UpdateStatus(ctx, 7, domain.RentalStatusDepositPending, domain.RentalStatusDepositPaid, entry)
		assert.ErrorIs(t, err, repository.ErrStatusMismatch)
	})
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs(int32(7)).
			WillReturnRows(sampleRentalRow("DEPOSIT_PENDING"))

		rt, err := repo.GetByID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), rt.ID)
		assert.Equal(t, "Rental requested", rt.StatusHistory[0].Label)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(rentalRows))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestRentalRepository_HasConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRentalRepository(db)
	ctx := context.Background()
	start := time.Now().UTC()
	end := start.Add(48 * time.Hour)

	t.Run("Conflict found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM rentals`).
			WithArgs(int32(2), start, end, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		conflict, err := repo.HasConflict(ctx, 2, start, end, 0)
		assert.NoError(t, err)
		assert.True(t, conflict)
	})

	t.Run("No conflict", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM rentals`).
			WithArgs(int32(2), start, end, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		conflict, err := repo.HasConflict(ctx, 2, start, end, 0)
		assert.NoError(t, err)
		assert.False(t, conflict)
	})
}
