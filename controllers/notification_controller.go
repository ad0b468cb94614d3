// controllers/notification_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitalroots/referral_backend/models"
)

// NotificationController serves in-app notifications
type NotificationController struct {
	DB *mongo.Database
}

// NewNotificationController creates a new notification controller
func NewNotificationController(db *mongo.Database) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications returns a patient's notifications, newest first.
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	patientID, err := primitive.ObjectIDFromHex(c.Param("patient_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid patient id"})
	}

	ctx := c.Request().Context()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := nc.DB.Collection("notifications").Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return respondError(c, err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, notifications)
}

// MarkRead flags a single notification as read.
func (nc *NotificationController) MarkRead(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid notification id"})
	}

	result, err := nc.DB.Collection("notifications").UpdateOne(c.Request().Context(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now()}},
	)
	if err != nil {
		return respondError(c, err)
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "Notification not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
