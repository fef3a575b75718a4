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

var contractRows = []string{
	"id", "rental_id", "contract_data", "renter_status", "owner_status", "contract_status", "created_at",
}

const testContractID = "[CONTRACT]0191e9f0-0000-7000-8000-000000000001"

func sampleContractRow(renter, owner, aggregate string) *sqlmock.Rows {
	data := []byte(`{"condition_notes":"small scratch on rear bumper"}`)
	return sqlmock.NewRows(contractRows).
		AddRow(testContractID, 7, data, renter, owner, aggregate, time.Now().UTC())
}

func TestContractRepository_UpdateSignerStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewContractRepository(db)
	ctx := context.Background()

	t.Run("Records slot and returns stored aggregate", func(t *testing.T) {
		// The counterparty signed after our caller last read the contract;
		// the row coming back from the UPDATE already reflects that.
		mock.ExpectQuery("UPDATE contracts").
			WithArgs(domain.ContractStatusSigned, testContractID).
			WillReturnRows(sampleContractRow("SIGNED", "SIGNED", "SIGNED"))

		c, err := repo.UpdateSignerStatus(ctx, testContractID, domain.SignerRoleRenter, domain.ContractStatusSigned)
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusSigned, c.RenterStatus)
		assert.Equal(t, domain.ContractStatusSigned, c.OwnerStatus)
		assert.Equal(t, domain.ContractStatusSigned, c.ContractStatus)
		assert.Equal(t, domain.ResolveContractStatus(c.RenterStatus, c.OwnerStatus), c.ContractStatus)
	})

	t.Run("Rejected counterparty keeps aggregate rejected", func(t *testing.T) {
		mock.ExpectQuery("UPDATE contracts").
			WithArgs(domain.ContractStatusSigned, testContractID).
			WillReturnRows(sampleContractRow("SIGNED", "REJECTED", "REJECTED"))

		c, err := repo.UpdateSignerStatus(ctx, testContractID, domain.SignerRoleRenter, domain.ContractStatusSigned)
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusRejected, c.ContractStatus)
	})

	t.Run("Already decided slot", func(t *testing.T) {
		mock.ExpectQuery("UPDATE contracts").
			WithArgs(domain.ContractStatusSigned, testContractID).
			WillReturnRows(sqlmock.NewRows(contractRows))

		_, err := repo.UpdateSignerStatus(ctx, testContractID, domain.SignerRoleOwner, domain.ContractStatusSigned)
		assert.ErrorIs(t, err, repository.ErrStatusMismatch)
	})
}

func TestContractRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewContractRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM contracts WHERE id = \$1`).
			WithArgs(testContractID).
			WillReturnRows(sampleContractRow("PENDING", "PENDING", "PENDING"))

		c, err := repo.GetByID(ctx, testContractID)
		assert.NoError(t, err)
		assert.Equal(t, testContractID, c.ID)
		assert.Equal(t, "small scratch on rear bumper", c.ContractData.ConditionNotes)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM contracts WHERE id = \$1`).
			WithArgs(testContractID).
			WillReturnRows(sqlmock.NewRows(contractRows))

		_, err := repo.GetByID(ctx, testContractID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
