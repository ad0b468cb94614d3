package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/websocket"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Database, patientID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		PatientID: patientID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := db.Collection("notifications").InsertOne(context.Background(), notification)
	return err
}

// sendEmail delivers a plain-text email over the configured SMTP relay.
// Missing SMTP configuration disables email silently; in-app and websocket
// channels still fire.
func sendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" {
		return nil
	}
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// NotifyWelcome greets a freshly registered patient with their coupon code.
func NotifyWelcome(db *mongo.Database, hub *websocket.Hub, patient *models.Patient) {
	title := "Welcome to the referral program"
	message := fmt.Sprintf("Hi %s, your referral coupon code is %s. Share it to start earning commissions.", patient.Name, patient.CouponCode)

	if err := SaveNotification(db, patient.ID, title, message, models.NotificationWelcome, nil); err != nil {
		log.Printf("Failed to save welcome notification for %s: %v", patient.ID.Hex(), err)
	}
	hub.SendToPatient(patient.ID, websocket.Event{
		Type:    models.NotificationWelcome,
		Message: message,
	})
	if patient.Email != "" {
		if err := sendEmail(patient.Email, title, message); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", patient.Email, err)
		}
	}
}

// NotifyCommissionEvent records and fans out a commission lifecycle event
// (credited, approved, claimed) to the beneficiary and to connected admin
// dashboards. Fire-and-forget: failures are logged, never returned to the
// ledger.
func NotifyCommissionEvent(db *mongo.Database, hub *websocket.Hub, tx models.CommissionTransaction, notifType string) {
	var beneficiary models.Patient
	err := db.Collection("patients").FindOne(context.Background(), bson.M{"_id": tx.BeneficiaryPatientID}).Decode(&beneficiary)
	if err != nil {
		log.Printf("Failed to find beneficiary %s for notification: %v", tx.BeneficiaryPatientID.Hex(), err)
		return
	}

	var title, message string
	switch notifType {
	case models.NotificationCommissionCredited:
		title = "Commission credited"
		message = fmt.Sprintf("A level %d commission of %.2f has been credited to your wallet and is awaiting approval.", tx.Level, tx.CommissionAmount)
	case models.NotificationCommissionApproved:
		title = "Commission approved"
		message = fmt.Sprintf("Your level %d commission of %.2f has been approved and is now claimable.", tx.Level, tx.CommissionAmount)
	case models.NotificationCommissionClaimed:
		title = "Commission claimed"
		message = fmt.Sprintf("Your commission of %.2f has been claimed and will be paid out.", tx.CommissionAmount)
	default:
		return
	}

	if err := SaveNotification(db, beneficiary.ID, title, message, notifType, map[string]interface{}{
		"commission_id": tx.ID.Hex(),
		"level":         tx.Level,
		"amount":        tx.CommissionAmount,
	}); err != nil {
		log.Printf("Failed to save %s notification for %s: %v", notifType, beneficiary.ID.Hex(), err)
	}

	event := websocket.Event{
		Type:    notifType,
		Message: message,
		Data:    tx,
	}
	hub.SendToPatient(beneficiary.ID, event)
	hub.BroadcastToAdmins(event)

	if beneficiary.Email != "" {
		if err := sendEmail(beneficiary.Email, title, message); err != nil {
			log.Printf("Failed to send %s email to %s: %v", notifType, beneficiary.Email, err)
		}
	}
}
