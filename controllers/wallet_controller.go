// controllers/wallet_controller.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/services"
	"github.com/vitalroots/referral_backend/utils"
	"github.com/vitalroots/referral_backend/websocket"
)

// WalletController exposes wallet reads and the beneficiary claim action
type WalletController struct {
	DB     *mongo.Database
	Wallet *services.WalletService
	Hub    *websocket.Hub
}

// NewWalletController creates a new wallet controller
func NewWalletController(db *mongo.Database, wallet *services.WalletService, hub *websocket.Hub) *WalletController {
	return &WalletController{DB: db, Wallet: wallet, Hub: hub}
}

// GetWallet returns the derived balance view for a patient.
func (wc *WalletController) GetWallet(c echo.Context) error {
	patientID, err := primitive.ObjectIDFromHex(c.Param("patient_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid patient id"})
	}

	wallet, err := wc.Wallet.GetWallet(c.Request().Context(), patientID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, wallet)
}

// GetCommissionHistory returns a patient's commission transactions,
// newest first.
func (wc *WalletController) GetCommissionHistory(c echo.Context) error {
	patientID, err := primitive.ObjectIDFromHex(c.Param("patient_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid patient id"})
	}

	txs, err := wc.Wallet.ListCommissions(c.Request().Context(), patientID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, txs)
}

// ClaimCommission moves an approved transaction to claimed. Only the
// transaction's beneficiary may claim it.
func (wc *WalletController) ClaimCommission(c echo.Context) error {
	commissionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid commission id"})
	}

	var req models.ClaimCommissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid patient id"})
	}

	tx, err := wc.Wallet.Claim(c.Request().Context(), commissionID, patientID)
	if err != nil {
		return respondError(c, err)
	}

	go utils.NotifyCommissionEvent(wc.DB, wc.Hub, *tx, models.NotificationCommissionClaimed)

	return c.JSON(http.StatusOK, tx)
}
