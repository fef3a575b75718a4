package jobs

import (
	"context"
	"time"

	"driveshare-backend/internal/logger"
)

// sweepBatchSize caps how many due cancellations one sweep picks up.
const sweepBatchSize = 200

// SweepExpiredRentals fires every scheduled cancellation whose deadline has
// passed. Firing is idempotent: a rental that already moved past the expected
// status is left untouched, and the job row is marked fired either way so it
// is not picked up again.
func (jr *JobRunner) SweepExpiredRentals() {
	jr.runWithRecovery("SweepExpiredRentals", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		due, err := jr.store.ListDue(ctx, now, sweepBatchSize)
		if err != nil {
			logger.Error("Failed to list due cancellations", "error", err)
			return
		}
		if len(due) == 0 {
			return
		}

		fired := 0
		for _, job := range due {
			if err := jr.services.Rental.Expire(ctx, job.RentalID, job.ExpectedStatus); err != nil {
				logger.Error("Failed to expire rental", "rental_id", job.RentalID, "expected_status", job.ExpectedStatus, "error", err)
				continue
			}
			if err := jr.store.MarkFired(ctx, job.ID, time.Now().UTC()); err != nil {
				logger.Error("Failed to mark cancellation fired", "job_id", job.ID, "error", err)
				continue
			}
			fired++
		}
		logger.Info("Swept expired rentals", "due", len(due), "fired", fired)
	})
}
