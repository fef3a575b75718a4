package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveContractStatus(t *testing.T) {
	t.Run("Pending until both sign", func(t *testing.T) {
		assert.Equal(t, ContractStatusPending, ResolveContractStatus(ContractStatusPending, ContractStatusPending))
		assert.Equal(t, ContractStatusPending, ResolveContractStatus(ContractStatusSigned, ContractStatusPending))
		assert.Equal(t, ContractStatusPending, ResolveContractStatus(ContractStatusPending, ContractStatusSigned))
	})

	t.Run("Both signatures settle to signed", func(t *testing.T) {
		assert.Equal(t, ContractStatusSigned, ResolveContractStatus(ContractStatusSigned, ContractStatusSigned))
	})

	t.Run("Rejection is sticky", func(t *testing.T) {
		assert.Equal(t, ContractStatusRejected, ResolveContractStatus(ContractStatusRejected, ContractStatusPending))
		assert.Equal(t, ContractStatusRejected, ResolveContractStatus(ContractStatusPending, ContractStatusRejected))
		assert.Equal(t, ContractStatusRejected, ResolveContractStatus(ContractStatusRejected, ContractStatusSigned))
		assert.Equal(t, ContractStatusRejected, ResolveContractStatus(ContractStatusSigned, ContractStatusRejected))
	})
}

func TestRentalStatusIsTerminal(t *testing.T) {
	terminal := []RentalStatus{RentalStatusCompleted, RentalStatusCancelled, RentalStatusDepositRefunded}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), string(s))
	}

	active := []RentalStatus{
		RentalStatusDepositPending, RentalStatusDepositPaid, RentalStatusOwnerPending,
		RentalStatusOwnerApproved, RentalStatusContractPending, RentalStatusContractSigned,
		RentalStatusRemainingPaymentPaid, RentalStatusRenterReceived, RentalStatusRenterReturned,
	}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), string(s))
	}
}
