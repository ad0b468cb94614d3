// models/commission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionStatus is the lifecycle stage of a commission transaction.
// Transitions only move forward: credited -> approved -> claimed.
type CommissionStatus string

const (
	StatusCredited CommissionStatus = "credited"
	StatusApproved CommissionStatus = "approved"
	StatusClaimed  CommissionStatus = "claimed"
)

// Valid reports whether s is one of the known statuses.
func (s CommissionStatus) Valid() bool {
	switch s {
	case StatusCredited, StatusApproved, StatusClaimed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal
// forward transition.
func (s CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	switch s {
	case StatusCredited:
		return next == StatusApproved
	case StatusApproved:
		return next == StatusClaimed
	}
	return false
}

// CommissionTransaction is a single commission credit produced when a
// referred patient completes medicine. One transaction exists per
// (source, beneficiary) pair per completion event; the one-shot
// medicineCompleted flag on the source patient guarantees the event
// fires at most once.
type CommissionTransaction struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SourcePatientID      primitive.ObjectID `bson:"sourcePatientId" json:"source_patient_id"`
	BeneficiaryPatientID primitive.ObjectID `bson:"beneficiaryPatientId" json:"beneficiary_patient_id"`
	Level                int                `bson:"level" json:"level"`
	BillAmount           float64            `bson:"billAmount" json:"bill_amount"`
	CommissionAmount     float64            `bson:"commissionAmount" json:"commission_amount"`
	Status               CommissionStatus   `bson:"status" json:"status"`
	CreatedAt            time.Time          `bson:"createdAt" json:"created_at"`
	ApprovedAt           *time.Time         `bson:"approvedAt,omitempty" json:"approved_at,omitempty"`
	ClaimedAt            *time.Time         `bson:"claimedAt,omitempty" json:"claimed_at,omitempty"`
}
