// controllers/admin_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitalroots/referral_backend/middleware"
	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/services"
	"github.com/vitalroots/referral_backend/utils"
	"github.com/vitalroots/referral_backend/websocket"
)

const dashboardCacheKey = "dashboard:stats"
const dashboardCacheTTL = 30 * time.Second

// AdminController orchestrates completion triggers, commission approval
// and the dashboard reads.
type AdminController struct {
	DB         *mongo.Database
	Completion *services.CompletionService
	Wallet     *services.WalletService
	Redis      *redis.Client
	Hub        *websocket.Hub
	Verify     middleware.TokenVerifier
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Database, completion *services.CompletionService, wallet *services.WalletService, redisClient *redis.Client, hub *websocket.Hub, verify middleware.TokenVerifier) *AdminController {
	return &AdminController{
		DB:         db,
		Completion: completion,
		Wallet:     wallet,
		Redis:      redisClient,
		Hub:        hub,
		Verify:     verify,
	}
}

// Login exchanges the shared admin credential for a session token.
func (ac *AdminController) Login(c echo.Context) error {
	var req models.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	}

	if !ac.Verify(req.Token) {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Detail: "Invalid admin token"})
	}

	sessionToken, err := middleware.IssueAdminToken()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":      sessionToken,
		"expires_in": int((12 * time.Hour).Seconds()),
	})
}

// Dashboard returns the aggregate program counters, cached briefly in
// Redis when available.
func (ac *AdminController) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	if ac.Redis != nil {
		if cached, err := ac.Redis.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var stats models.DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return c.JSON(http.StatusOK, stats)
			}
		}
	}

	stats, err := ac.computeStats(ctx)
	if err != nil {
		return respondError(c, err)
	}

	if ac.Redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := ac.Redis.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				log.Printf("Warning: failed to cache dashboard stats: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, stats)
}

func (ac *AdminController) computeStats(ctx context.Context) (*models.DashboardStats, error) {
	patients := ac.DB.Collection("patients")
	commissions := ac.DB.Collection("commissions")

	totalPatients, err := patients.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	totalReferrals, err := patients.CountDocuments(ctx, bson.M{"referredBy": bson.M{"$exists": true, "$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}
	consultations, err := patients.CountDocuments(ctx, bson.M{"consultationCompleted": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}
	medicines, err := patients.CountDocuments(ctx, bson.M{"medicineCompleted": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count medicines: %w", err)
	}
	processed, err := commissions.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count commissions: %w", err)
	}

	return &models.DashboardStats{
		TotalPatients:          totalPatients,
		TotalReferrals:         totalReferrals,
		ConsultationsCompleted: consultations,
		MedicinesCompleted:     medicines,
		CommissionsProcessed:   processed,
	}, nil
}

// PatientsOverview returns the flattened patient table for the dashboard.
func (ac *AdminController) PatientsOverview(c echo.Context) error {
	ctx := c.Request().Context()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ac.DB.Collection("patients").Find(ctx, bson.M{}, opts)
	if err != nil {
		return respondError(c, err)
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return respondError(c, err)
	}

	processed, err := ac.Wallet.ProcessedSources(ctx)
	if err != nil {
		return respondError(c, err)
	}

	names := make(map[primitive.ObjectID]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.Name
	}

	overview := make([]models.PatientOverview, 0, len(patients))
	for _, p := range patients {
		referredBy := ""
		if p.ReferredBy != nil {
			referredBy = names[*p.ReferredBy]
		}
		overview = append(overview, models.PatientOverview{
			ID:                    p.ID.Hex(),
			Name:                  p.Name,
			Phone:                 p.Phone,
			ReferredBy:            referredBy,
			ConsultationCompleted: p.ConsultationCompleted,
			MedicineCompleted:     p.MedicineCompleted,
			CommissionProcessed:   processed[p.ID],
		})
	}

	return c.JSON(http.StatusOK, overview)
}

// CompleteConsultationByPhone marks the consultation flag for the patient
// with this phone. No commission side effect.
func (ac *AdminController) CompleteConsultationByPhone(c echo.Context) error {
	var req models.CompleteConsultationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	}

	patient, err := ac.Completion.CompleteConsultation(c.Request().Context(), req.Phone)
	if err != nil {
		return respondError(c, err)
	}

	ac.invalidateStatsCache()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Consultation marked complete for %s", patient.Name),
	})
}

// CompleteMedicineByPhone marks the medicine flag and triggers the
// commission distribution over consultation + medicine amounts.
func (ac *AdminController) CompleteMedicineByPhone(c echo.Context) error {
	var req models.CompleteMedicineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	}

	patient, txs, err := ac.Completion.CompleteMedicine(c.Request().Context(), req.Phone, req.ConsultationAmount, req.MedicineAmount)
	if err != nil {
		return respondError(c, err)
	}

	for _, tx := range txs {
		go utils.NotifyCommissionEvent(ac.DB, ac.Hub, tx, models.NotificationCommissionCredited)
	}
	ac.invalidateStatsCache()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":             fmt.Sprintf("Medicine marked complete for %s; %d commission(s) credited", patient.Name, len(txs)),
		"commissions_created": len(txs),
		"transactions":        txs,
	})
}

// ApproveCommission moves a credited transaction to approved.
func (ac *AdminController) ApproveCommission(c echo.Context) error {
	commissionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid commission id"})
	}

	tx, err := ac.Wallet.Approve(c.Request().Context(), commissionID)
	if err != nil {
		return respondError(c, err)
	}

	go utils.NotifyCommissionEvent(ac.DB, ac.Hub, *tx, models.NotificationCommissionApproved)

	return c.JSON(http.StatusOK, tx)
}

// ListAllCommissions returns every transaction for the pending-approval
// panel.
func (ac *AdminController) ListAllCommissions(c echo.Context) error {
	txs, err := ac.Wallet.ListAllCommissions(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, txs)
}

// invalidateStatsCache drops the cached dashboard counters after a write
// that changes them.
func (ac *AdminController) invalidateStatsCache() {
	if ac.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ac.Redis.Del(ctx, dashboardCacheKey).Err(); err != nil {
		log.Printf("Warning: failed to invalidate dashboard cache: %v", err)
	}
}
