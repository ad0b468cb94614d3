// services/wallet.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitalroots/referral_backend/models"
)

// WalletService projects commission transactions into claimable balances
// and owns the two outward state transitions: admin approval and
// beneficiary claim. Both transitions are single-document compare-and-sets
// keyed by commission id and expected prior status, so concurrent calls on
// the same transaction yield exactly one winner.
type WalletService struct {
	DB *mongo.Database
}

// NewWalletService creates a new wallet service
func NewWalletService(db *mongo.Database) *WalletService {
	return &WalletService{DB: db}
}

func (s *WalletService) commissions() *mongo.Collection {
	return s.DB.Collection("commissions")
}

// GetWallet computes the derived wallet for a patient.
func (s *WalletService) GetWallet(ctx context.Context, patientID primitive.ObjectID) (*models.Wallet, error) {
	txs, err := s.ListCommissions(ctx, patientID)
	if err != nil {
		return nil, err
	}
	wallet := models.ComputeWallet(txs)
	return &wallet, nil
}

// ListCommissions returns a patient's commission history, newest first.
func (s *WalletService) ListCommissions(ctx context.Context, patientID primitive.ObjectID) ([]models.CommissionTransaction, error) {
	return s.list(ctx, bson.M{"beneficiaryPatientId": patientID})
}

// ListAllCommissions returns every transaction, newest first, for admin
// review.
func (s *WalletService) ListAllCommissions(ctx context.Context) ([]models.CommissionTransaction, error) {
	return s.list(ctx, bson.M{})
}

func (s *WalletService) list(ctx context.Context, filter bson.M) ([]models.CommissionTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.commissions().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	defer cursor.Close(ctx)

	txs := []models.CommissionTransaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode commissions: %w", err)
	}
	return txs, nil
}

// Approve moves a transaction from credited to approved and stamps
// approvedAt. Admin-only; the route guard enforces the privilege.
func (s *WalletService) Approve(ctx context.Context, commissionID primitive.ObjectID) (*models.CommissionTransaction, error) {
	now := time.Now()
	return s.transition(ctx,
		bson.M{"_id": commissionID, "status": models.StatusCredited},
		bson.M{"$set": bson.M{"status": models.StatusApproved, "approvedAt": now}},
		commissionID, nil)
}

// Claim moves a transaction from approved to claimed and stamps claimedAt.
// Only the transaction's beneficiary may claim it.
func (s *WalletService) Claim(ctx context.Context, commissionID, patientID primitive.ObjectID) (*models.CommissionTransaction, error) {
	now := time.Now()
	return s.transition(ctx,
		bson.M{"_id": commissionID, "status": models.StatusApproved, "beneficiaryPatientId": patientID},
		bson.M{"$set": bson.M{"status": models.StatusClaimed, "claimedAt": now}},
		commissionID, &patientID)
}

// transition applies a guarded status update. When the CAS misses, a
// follow-up read tells apart a missing transaction, a wrong beneficiary
// and an illegal transition; the row is left untouched in every failure
// case.
func (s *WalletService) transition(ctx context.Context, filter, update bson.M, commissionID primitive.ObjectID, claimant *primitive.ObjectID) (*models.CommissionTransaction, error) {
	var tx models.CommissionTransaction
	err := s.commissions().FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tx)
	if err == nil {
		return &tx, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to update commission status: %w", err)
	}

	var current models.CommissionTransaction
	err = s.commissions().FindOne(ctx, bson.M{"_id": commissionID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCommissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commission: %w", err)
	}
	if claimant != nil && current.BeneficiaryPatientID != *claimant {
		return nil, ErrNotBeneficiary
	}
	return nil, ErrInvalidTransition
}

// ProcessedSources returns the source patient ids that have at least
// one commission transaction, for the overview's commission_processed
// column.
func (s *WalletService) ProcessedSources(ctx context.Context) (map[primitive.ObjectID]bool, error) {
	ids, err := s.commissions().Distinct(ctx, "sourcePatientId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list processed sources: %w", err)
	}
	processed := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if oid, ok := id.(primitive.ObjectID); ok {
			processed[oid] = true
		}
	}
	return processed, nil
}
