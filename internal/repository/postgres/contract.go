package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	data, err := json.Marshal(c.ContractData)
	if err != nil {
		return fmt.Errorf("marshal contract data: %w", err)
	}

	query := `INSERT INTO contracts (id, rental_id, contract_data, renter_status, owner_status, contract_status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query, c.ID, c.RentalID, data, c.RenterStatus, c.OwnerStatus, c.ContractStatus, c.CreatedAt)
	return err
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query := `SELECT id, rental_id, contract_data, renter_status, owner_status, contract_status, created_at
	          FROM contracts WHERE id = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return c, err
}

func (r *contractRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Contract, error) {
	query := `SELECT id, rental_id, contract_data, renter_status, owner_status, contract_status, created_at
	          FROM contracts WHERE rental_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) UpdateSignerStatus(ctx context.Context, id string, role domain.SignerRole, status domain.ContractStatus) (*domain.Contract, error) {
	// One statement per signer slot, guarded on the slot still being PENDING:
	// a party cannot re-sign after deciding. The aggregate is computed from
	// the column values inside the same UPDATE, so a concurrent signature by
	// the counterparty can never leave contract_status behind the slots.
	var query string
	switch role {
	case domain.SignerRoleRenter:
		query = `UPDATE contracts
		         SET renter_status = $1,
		             contract_status = CASE
		                 WHEN $1 = 'REJECTED' OR owner_status = 'REJECTED' THEN 'REJECTED'
		                 WHEN $1 = 'SIGNED' AND owner_status = 'SIGNED' THEN 'SIGNED'
		                 ELSE 'PENDING'
		             END
		         WHERE id = $2 AND renter_status = 'PENDING'
		         RETURNING id, rental_id, contract_data, renter_status, owner_status, contract_status, created_at`
	case domain.SignerRoleOwner:
		query = `UPDATE contracts
		         SET owner_status = $1,
		             contract_status = CASE
		                 WHEN $1 = 'REJECTED' OR renter_status = 'REJECTED' THEN 'REJECTED'
		                 WHEN $1 = 'SIGNED' AND renter_status = 'SIGNED' THEN 'SIGNED'
		                 ELSE 'PENDING'
		             END
		         WHERE id = $2 AND owner_status = 'PENDING'
		         RETURNING id, rental_id, contract_data, renter_status, owner_status, contract_status, created_at`
	default:
		return nil, fmt.Errorf("unknown signer role %q", role)
	}

	c, err := scanContract(r.db.QueryRowContext(ctx, query, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrStatusMismatch
	}
	return c, err
}

func scanContract(row rowScanner) (*domain.Contract, error) {
	c := &domain.Contract{}
	var data []byte
	err := row.Scan(&c.ID, &c.RentalID, &data, &c.RenterStatus, &c.OwnerStatus, &c.ContractStatus, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.ContractData); err != nil {
			return nil, fmt.Errorf("unmarshal contract data: %w", err)
		}
	}
	return c, nil
}
