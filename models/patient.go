// models/patient.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient represents a participant in the referral program. A patient may
// have been referred by another patient (ReferredBy), and owns a unique
// coupon code that new registrants present to join under them.
type Patient struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                  string              `bson:"name" json:"name"`
	Phone                 string              `bson:"phone" json:"phone"`
	Email                 string              `bson:"email,omitempty" json:"email,omitempty"`
	CouponCode            string              `bson:"couponCode" json:"coupon_code"`
	ReferredBy            *primitive.ObjectID `bson:"referredBy,omitempty" json:"referred_by_id,omitempty"`
	WebinarBatchID        string              `bson:"webinarBatchId,omitempty" json:"webinar_batch_id,omitempty"`
	IsActive              bool                `bson:"isActive" json:"is_active"`
	ConsultationCompleted bool                `bson:"consultationCompleted" json:"consultation_completed"`
	MedicineCompleted     bool                `bson:"medicineCompleted" json:"medicine_completed"`
	QRCodePath            string              `bson:"qrCodePath,omitempty" json:"qr_code_path,omitempty"`
	CreatedAt             time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"-"`
}

// PatientOverview is the flattened row the admin dashboard table consumes.
type PatientOverview struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Phone                 string `json:"phone"`
	ReferredBy            string `json:"referred_by"`
	ConsultationCompleted bool   `json:"consultation_completed"`
	MedicineCompleted     bool   `json:"medicine_completed"`
	CommissionProcessed   bool   `json:"commission_processed"`
}

// ReferralInfo is returned when a coupon code is looked up before
// registration.
type ReferralInfo struct {
	ReferrerName string `json:"referrer_name"`
	CouponCode   string `json:"coupon_code"`
	Message      string `json:"message"`
}

// DashboardStats holds the admin dashboard counters.
type DashboardStats struct {
	TotalPatients          int64 `json:"total_patients"`
	TotalReferrals         int64 `json:"total_referrals"`
	ConsultationsCompleted int64 `json:"consultations_completed"`
	MedicinesCompleted     int64 `json:"medicines_completed"`
	CommissionsProcessed   int64 `json:"commissions_processed"`
}

// ErrorResponse is the error body the browser client expects.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
