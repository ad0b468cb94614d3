package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types emitted by the ledger.
const (
	NotificationWelcome            = "welcome"
	NotificationCommissionCredited = "commission_credited"
	NotificationCommissionApproved = "commission_approved"
	NotificationCommissionClaimed  = "commission_claimed"
)

// Notification model
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PatientID primitive.ObjectID `json:"patient_id" bson:"patientId"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Data      interface{}        `json:"data,omitempty" bson:"data"`
	IsRead    bool               `json:"is_read" bson:"isRead"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}
