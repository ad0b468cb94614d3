// services/registry.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/utils"
)

// MaxReferralLevels caps how far up the referral chain commissions reach.
const MaxReferralLevels = 3

// couponAttempts bounds the collision-check loop when issuing coupon codes.
const couponAttempts = 5

// ChainEntry is one ancestor in a patient's referral chain. Level is the
// distance from the source patient (direct referrer = 1).
type ChainEntry struct {
	Patient models.Patient
	Level   int
}

// patientLookup resolves a patient id to its record. ResolveChain walks
// through it so tests can feed an in-memory graph.
type patientLookup func(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)

// RegistryService owns patient identity, coupon issuance and the referral
// parent-link graph.
type RegistryService struct {
	DB *mongo.Database
}

// NewRegistryService creates a new registry service
func NewRegistryService(db *mongo.Database) *RegistryService {
	return &RegistryService{DB: db}
}

func (s *RegistryService) patients() *mongo.Collection {
	return s.DB.Collection("patients")
}

// Register creates a root patient with no referrer and a fresh coupon code.
func (s *RegistryService) Register(ctx context.Context, req models.CreatePatientRequest) (*models.Patient, error) {
	return s.createPatient(ctx, req.Name, req.Phone, req.Email, req.WebinarBatchID, nil)
}

// RegisterViaReferral resolves the coupon code to an active referrer and
// creates the new patient linked under them.
func (s *RegistryService) RegisterViaReferral(ctx context.Context, req models.ReferralRegisterRequest) (*models.Patient, error) {
	referrer, err := s.FindByCoupon(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}
	return s.createPatient(ctx, req.Name, req.Phone, req.Email, "", &referrer.ID)
}

func (s *RegistryService) createPatient(ctx context.Context, name, phone, email, webinarBatchID string, referredBy *primitive.ObjectID) (*models.Patient, error) {
	couponCode, err := s.issueCouponCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patient := models.Patient{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Phone:          phone,
		Email:          email,
		CouponCode:     couponCode,
		ReferredBy:     referredBy,
		WebinarBatchID: webinarBatchID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// QR failure is not fatal; the coupon code alone is enough to refer.
	qrPath, err := utils.GenerateReferralQR(patient.CouponCode)
	if err != nil {
		log.Printf("Warning: failed to generate referral QR for %s: %v", patient.CouponCode, err)
	} else {
		patient.QRCodePath = qrPath
	}

	if _, err := s.patients().InsertOne(ctx, patient); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to insert patient: %w", err)
	}

	return &patient, nil
}

// issueCouponCode generates a coupon code and verifies it is unused,
// retrying on the (unlikely) collision.
func (s *RegistryService) issueCouponCode(ctx context.Context) (string, error) {
	for i := 0; i < couponAttempts; i++ {
		code, err := utils.GenerateCouponCode()
		if err != nil {
			return "", err
		}
		count, err := s.patients().CountDocuments(ctx, bson.M{"couponCode": code})
		if err != nil {
			return "", fmt.Errorf("failed to check coupon uniqueness: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not issue a unique coupon code after %d attempts", couponAttempts)
}

// GetPatient fetches a patient by id.
func (s *RegistryService) GetPatient(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var patient models.Patient
	err := s.patients().FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	return &patient, nil
}

// FindByPhone fetches a patient by phone, the canonical key for admin
// completion actions.
func (s *RegistryService) FindByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	var patient models.Patient
	err := s.patients().FindOne(ctx, bson.M{"phone": phone}).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient by phone: %w", err)
	}
	return &patient, nil
}

// FindByCoupon resolves a coupon code to its active owner. Inactive
// referrers are treated the same as unknown codes.
func (s *RegistryService) FindByCoupon(ctx context.Context, couponCode string) (*models.Patient, error) {
	var referrer models.Patient
	err := s.patients().FindOne(ctx, bson.M{"couponCode": couponCode}).Decode(&referrer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUnknownCoupon
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve coupon: %w", err)
	}
	if !referrer.IsActive {
		return nil, ErrUnknownCoupon
	}
	return &referrer, nil
}

// ResolveChain returns the patient's ancestors along referredBy links,
// nearest first, up to maxLevels.
func (s *RegistryService) ResolveChain(ctx context.Context, patient *models.Patient, maxLevels int) ([]ChainEntry, error) {
	return walkChain(ctx, s.lookup, patient, maxLevels)
}

func (s *RegistryService) lookup(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	return s.GetPatient(ctx, id)
}

// walkChain follows referredBy pointers. The referral graph is supposed to
// be a forest, but the walk must terminate even on corrupted data: the
// iteration count is capped at maxLevels and revisiting a seen id stops the
// walk. A dangling referrer pointer also stops the walk rather than failing
// the whole operation.
func walkChain(ctx context.Context, lookup patientLookup, start *models.Patient, maxLevels int) ([]ChainEntry, error) {
	var chain []ChainEntry
	seen := map[primitive.ObjectID]bool{start.ID: true}

	current := start
	for level := 1; level <= maxLevels; level++ {
		if current.ReferredBy == nil {
			break
		}
		parentID := *current.ReferredBy
		if seen[parentID] {
			log.Printf("Warning: referral cycle detected at patient %s, stopping chain walk", parentID.Hex())
			break
		}
		parent, err := lookup(ctx, parentID)
		if err == ErrPatientNotFound {
			log.Printf("Warning: dangling referrer %s, stopping chain walk", parentID.Hex())
			break
		}
		if err != nil {
			return nil, err
		}
		chain = append(chain, ChainEntry{Patient: *parent, Level: level})
		seen[parent.ID] = true
		current = parent
	}

	return chain, nil
}

// GetReferralInfo returns the banner shown to a registrant before they
// join under a coupon.
func (s *RegistryService) GetReferralInfo(ctx context.Context, couponCode string) (*models.ReferralInfo, error) {
	referrer, err := s.FindByCoupon(ctx, couponCode)
	if err != nil {
		return nil, err
	}
	return &models.ReferralInfo{
		ReferrerName: referrer.Name,
		CouponCode:   referrer.CouponCode,
		Message:      fmt.Sprintf("You were referred by %s. Complete your registration to join the program.", referrer.Name),
	}, nil
}
