package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWalletEmpty(t *testing.T) {
	w := ComputeWallet(nil)

	assert.Equal(t, 0.0, w.Balance)
	assert.Equal(t, 0.0, w.TotalEarned)
	assert.Equal(t, 0, w.TotalTransactions)
}

func TestComputeWalletBalanceCountsOnlyApproved(t *testing.T) {
	txs := []CommissionTransaction{
		{CommissionAmount: 100, Status: StatusCredited},
		{CommissionAmount: 50, Status: StatusApproved},
		{CommissionAmount: 20, Status: StatusApproved},
		{CommissionAmount: 30, Status: StatusClaimed},
	}

	w := ComputeWallet(txs)

	assert.Equal(t, 70.0, w.Balance)
	assert.Equal(t, 200.0, w.TotalEarned)
	assert.Equal(t, 4, w.TotalTransactions)
}

func TestComputeWalletBalanceDropsOnClaim(t *testing.T) {
	txs := []CommissionTransaction{
		{CommissionAmount: 50, Status: StatusApproved},
		{CommissionAmount: 25, Status: StatusApproved},
	}
	before := ComputeWallet(txs)

	txs[0].Status = StatusClaimed
	after := ComputeWallet(txs)

	assert.Equal(t, 75.0, before.Balance)
	assert.Equal(t, 25.0, after.Balance)
	// claiming never changes the historical total
	assert.Equal(t, before.TotalEarned, after.TotalEarned)
}
