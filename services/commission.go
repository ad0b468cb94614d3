// services/commission.go
package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vitalroots/referral_backend/models"
)

// RateTable holds the commission fraction per referral level. The values
// are program parameters, never user input.
type RateTable [MaxReferralLevels]float64

// LoadRateTable reads COMMISSION_RATE_L1..L3 (percent values, e.g. "10")
// from the environment, falling back to the default program rates.
func LoadRateTable() RateTable {
	rates := RateTable{0.10, 0.05, 0.02}
	for i := range rates {
		key := fmt.Sprintf("COMMISSION_RATE_L%d", i+1)
		if v := os.Getenv(key); v != "" {
			percent, err := strconv.ParseFloat(v, 64)
			if err != nil || percent < 0 {
				log.Printf("Warning: ignoring invalid %s=%q", key, v)
				continue
			}
			rates[i] = percent / 100
		}
	}
	return rates
}

// Rate returns the fraction for a 1-based level, 0 for levels outside the
// table.
func (rt RateTable) Rate(level int) float64 {
	if level < 1 || level > len(rt) {
		return 0
	}
	return rt[level-1]
}

// RoundCurrency rounds to 2 decimal places, the program currency precision.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeCommissions deterministically fans a bill amount out over the
// referral chain: one credited transaction per ancestor, amount =
// round2(bill * rate(level)). Chains shorter than the table simply yield
// fewer transactions.
func ComputeCommissions(source *models.Patient, chain []ChainEntry, billAmount float64, rates RateTable) []models.CommissionTransaction {
	now := time.Now()
	txs := make([]models.CommissionTransaction, 0, len(chain))
	for _, entry := range chain {
		txs = append(txs, models.CommissionTransaction{
			ID:                   primitive.NewObjectID(),
			SourcePatientID:      source.ID,
			BeneficiaryPatientID: entry.Patient.ID,
			Level:                entry.Level,
			BillAmount:           billAmount,
			CommissionAmount:     RoundCurrency(billAmount * rates.Rate(entry.Level)),
			Status:               models.StatusCredited,
			CreatedAt:            now,
		})
	}
	return txs
}

// CommissionEngine turns a billing event into ancestor credits. It has no
// idempotency knowledge of its own; the completion tracker's one-shot flag
// guarantees Distribute runs at most once per source patient.
type CommissionEngine struct {
	DB       *mongo.Database
	Registry *RegistryService
	Rates    RateTable
}

// NewCommissionEngine creates a new commission engine
func NewCommissionEngine(db *mongo.Database, registry *RegistryService, rates RateTable) *CommissionEngine {
	return &CommissionEngine{DB: db, Registry: registry, Rates: rates}
}

func (e *CommissionEngine) commissions() *mongo.Collection {
	return e.DB.Collection("commissions")
}

// Distribute resolves the source's referral chain and inserts one credited
// transaction per ancestor. Returns the created transactions, possibly
// empty for patients with no referrer.
func (e *CommissionEngine) Distribute(ctx context.Context, source *models.Patient, billAmount float64) ([]models.CommissionTransaction, error) {
	chain, err := e.Registry.ResolveChain(ctx, source, MaxReferralLevels)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve referral chain: %w", err)
	}

	txs := ComputeCommissions(source, chain, billAmount, e.Rates)
	if len(txs) == 0 {
		return txs, nil
	}

	docs := make([]interface{}, len(txs))
	for i, tx := range txs {
		docs[i] = tx
	}
	if _, err := e.commissions().InsertMany(ctx, docs); err != nil {
		// A source patient only ever completes medicine once, so deleting
		// by source id cannot touch transactions from another event.
		if _, cleanupErr := e.commissions().DeleteMany(ctx, bson.M{"sourcePatientId": source.ID}); cleanupErr != nil {
			log.Printf("ERROR: failed to clean up partial distribution for %s: %v", source.ID.Hex(), cleanupErr)
		}
		return nil, fmt.Errorf("failed to insert commission transactions: %w", err)
	}

	return txs, nil
}
