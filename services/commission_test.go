package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vitalroots/referral_backend/models"
)

func TestRateTableRate(t *testing.T) {
	rates := RateTable{0.10, 0.05, 0.02}

	assert.Equal(t, 0.10, rates.Rate(1))
	assert.Equal(t, 0.05, rates.Rate(2))
	assert.Equal(t, 0.02, rates.Rate(3))
	assert.Equal(t, 0.0, rates.Rate(0))
	assert.Equal(t, 0.0, rates.Rate(4))
	assert.Equal(t, 0.0, rates.Rate(-1))
}

func TestLoadRateTableFromEnv(t *testing.T) {
	t.Setenv("COMMISSION_RATE_L1", "15")
	t.Setenv("COMMISSION_RATE_L2", "7.5")
	t.Setenv("COMMISSION_RATE_L3", "not-a-number")

	rates := LoadRateTable()

	assert.InDelta(t, 0.15, rates.Rate(1), 1e-9)
	assert.InDelta(t, 0.075, rates.Rate(2), 1e-9)
	// invalid value falls back to the default
	assert.InDelta(t, 0.02, rates.Rate(3), 1e-9)
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 100.0, RoundCurrency(100.0))
	assert.Equal(t, 33.33, RoundCurrency(33.333333))
	assert.Equal(t, 33.34, RoundCurrency(33.336))
	assert.Equal(t, 0.0, RoundCurrency(0))
	assert.Equal(t, 0.1, RoundCurrency(0.10499))
}

func chainOf(patients ...models.Patient) []ChainEntry {
	chain := make([]ChainEntry, len(patients))
	for i, p := range patients {
		chain[i] = ChainEntry{Patient: p, Level: i + 1}
	}
	return chain
}

func TestComputeCommissionsFullChain(t *testing.T) {
	rates := RateTable{0.10, 0.05, 0.02}
	source := models.Patient{ID: primitive.NewObjectID(), Name: "Source"}
	a := models.Patient{ID: primitive.NewObjectID(), Name: "Level1"}
	b := models.Patient{ID: primitive.NewObjectID(), Name: "Level2"}
	c := models.Patient{ID: primitive.NewObjectID(), Name: "Level3"}

	txs := ComputeCommissions(&source, chainOf(a, b, c), 1000, rates)

	require.Len(t, txs, 3)
	assert.Equal(t, 100.0, txs[0].CommissionAmount)
	assert.Equal(t, 50.0, txs[1].CommissionAmount)
	assert.Equal(t, 20.0, txs[2].CommissionAmount)
	for i, tx := range txs {
		assert.Equal(t, i+1, tx.Level)
		assert.Equal(t, source.ID, tx.SourcePatientID)
		assert.Equal(t, 1000.0, tx.BillAmount)
		assert.Equal(t, models.StatusCredited, tx.Status)
		assert.False(t, tx.ID.IsZero())
	}
	assert.Equal(t, a.ID, txs[0].BeneficiaryPatientID)
	assert.Equal(t, b.ID, txs[1].BeneficiaryPatientID)
	assert.Equal(t, c.ID, txs[2].BeneficiaryPatientID)
}

func TestComputeCommissionsShortChain(t *testing.T) {
	// Scenario from the program rules: A refers B, B refers C. When C
	// completes medicine with bill 1000, B earns level 1 and A earns
	// level 2; there is no level 3 transaction.
	rates := RateTable{0.10, 0.05, 0.02}
	source := models.Patient{ID: primitive.NewObjectID(), Name: "C"}
	b := models.Patient{ID: primitive.NewObjectID(), Name: "B"}
	a := models.Patient{ID: primitive.NewObjectID(), Name: "A"}

	txs := ComputeCommissions(&source, chainOf(b, a), 1000, rates)

	require.Len(t, txs, 2)
	assert.Equal(t, b.ID, txs[0].BeneficiaryPatientID)
	assert.Equal(t, 1, txs[0].Level)
	assert.Equal(t, 100.0, txs[0].CommissionAmount)
	assert.Equal(t, a.ID, txs[1].BeneficiaryPatientID)
	assert.Equal(t, 2, txs[1].Level)
	assert.Equal(t, 50.0, txs[1].CommissionAmount)
}

func TestComputeCommissionsNoChain(t *testing.T) {
	rates := RateTable{0.10, 0.05, 0.02}
	source := models.Patient{ID: primitive.NewObjectID()}

	txs := ComputeCommissions(&source, nil, 500, rates)

	assert.Empty(t, txs)
}

func TestComputeCommissionsRounding(t *testing.T) {
	rates := RateTable{0.10, 0.05, 0.02}
	source := models.Patient{ID: primitive.NewObjectID()}
	ancestor := models.Patient{ID: primitive.NewObjectID()}

	txs := ComputeCommissions(&source, chainOf(ancestor), 333.33, rates)

	require.Len(t, txs, 1)
	// 333.33 * 0.10 = 33.333 -> 33.33
	assert.Equal(t, 33.33, txs[0].CommissionAmount)
}

func TestComputeCommissionsDeterministic(t *testing.T) {
	rates := RateTable{0.10, 0.05, 0.02}
	source := models.Patient{ID: primitive.NewObjectID()}
	ancestors := chainOf(
		models.Patient{ID: primitive.NewObjectID()},
		models.Patient{ID: primitive.NewObjectID()},
	)

	first := ComputeCommissions(&source, ancestors, 750, rates)
	second := ComputeCommissions(&source, ancestors, 750, rates)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].BeneficiaryPatientID, second[i].BeneficiaryPatientID)
		assert.Equal(t, first[i].Level, second[i].Level)
		assert.Equal(t, first[i].CommissionAmount, second[i].CommissionAmount)
	}
}
