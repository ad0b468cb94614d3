// services/completion.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitalroots/referral_backend/models"
)

// CompletionService is the single writer for the consultation/medicine
// completion flags. The flags are monotonic (false -> true only) and double
// as idempotency guards: each flip is a single-document compare-and-set,
// so concurrent duplicate triggers resolve to exactly one winner.
type CompletionService struct {
	DB     *mongo.Database
	Engine *CommissionEngine
}

// NewCompletionService creates a new completion service
func NewCompletionService(db *mongo.Database, engine *CommissionEngine) *CompletionService {
	return &CompletionService{DB: db, Engine: engine}
}

func (s *CompletionService) patients() *mongo.Collection {
	return s.DB.Collection("patients")
}

// CompleteConsultation marks the consultation done for the patient with
// this phone. Re-triggering is rejected with ErrAlreadyCompleted, not
// silently accepted, so duplicate admin actions are visible. No commission
// side effect.
func (s *CompletionService) CompleteConsultation(ctx context.Context, phone string) (*models.Patient, error) {
	return s.flipFlag(ctx, phone, "consultationCompleted")
}

// CompleteMedicine marks medicine done and distributes commissions over
// bill = consultation + medicine. The flag flip and the distribution are
// one atomic unit: if the engine fails, the flag is reset so the event can
// be re-triggered later with no transactions left behind.
func (s *CompletionService) CompleteMedicine(ctx context.Context, phone string, consultationAmount, medicineAmount float64) (*models.Patient, []models.CommissionTransaction, error) {
	if consultationAmount < 0 || medicineAmount < 0 {
		return nil, nil, fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	}
	billAmount := consultationAmount + medicineAmount
	if billAmount <= 0 {
		return nil, nil, fmt.Errorf("%w: bill amount must be positive", ErrValidation)
	}

	patient, err := s.flipFlag(ctx, phone, "medicineCompleted")
	if err != nil {
		return nil, nil, err
	}

	txs, err := s.Engine.Distribute(ctx, patient, billAmount)
	if err != nil {
		// Compensate: the untriggered commission must not be lost behind a
		// durable flag.
		if rollbackErr := s.resetFlag(ctx, phone, "medicineCompleted"); rollbackErr != nil {
			log.Printf("ERROR: failed to roll back medicineCompleted for %s: %v", phone, rollbackErr)
		}
		return nil, nil, err
	}

	return patient, txs, nil
}

// flipFlag sets the named completion flag from false to true in one
// compare-and-set. Losing the CAS means either the patient does not exist
// or the flag was already set; a follow-up read distinguishes the two.
func (s *CompletionService) flipFlag(ctx context.Context, phone, flag string) (*models.Patient, error) {
	var patient models.Patient
	err := s.patients().FindOneAndUpdate(ctx,
		bson.M{"phone": phone, flag: false},
		bson.M{"$set": bson.M{flag: true, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&patient)
	if err == nil {
		return &patient, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to update %s: %w", flag, err)
	}

	count, countErr := s.patients().CountDocuments(ctx, bson.M{"phone": phone})
	if countErr != nil {
		return nil, fmt.Errorf("failed to look up patient by phone: %w", countErr)
	}
	if count == 0 {
		return nil, ErrPatientNotFound
	}
	return nil, ErrAlreadyCompleted
}

func (s *CompletionService) resetFlag(ctx context.Context, phone, flag string) error {
	_, err := s.patients().UpdateOne(ctx,
		bson.M{"phone": phone},
		bson.M{"$set": bson.M{flag: false, "updatedAt": time.Now()}},
	)
	return err
}
