// controllers/referral_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/services"
	"github.com/vitalroots/referral_backend/utils"
	"github.com/vitalroots/referral_backend/websocket"
)

// ReferralController handles coupon lookup and registration via referral
type ReferralController struct {
	DB       *mongo.Database
	Registry *services.RegistryService
	Hub      *websocket.Hub
}

// NewReferralController creates a new referral controller
func NewReferralController(db *mongo.Database, registry *services.RegistryService, hub *websocket.Hub) *ReferralController {
	return &ReferralController{DB: db, Registry: registry, Hub: hub}
}

// GetReferralInfo resolves a coupon code to the referrer banner shown
// before registration.
func (rc *ReferralController) GetReferralInfo(c echo.Context) error {
	couponCode := strings.ToUpper(strings.TrimSpace(c.Param("coupon_code")))
	if couponCode == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Coupon code is required"})
	}

	info, err := rc.Registry.GetReferralInfo(c.Request().Context(), couponCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, info)
}

// RegisterViaReferral creates a patient linked under the coupon's owner.
func (rc *ReferralController) RegisterViaReferral(c echo.Context) error {
	var req models.ReferralRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	}

	req.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)

	patient, err := rc.Registry.RegisterViaReferral(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	go utils.NotifyWelcome(rc.DB, rc.Hub, patient)

	return c.JSON(http.StatusCreated, patient)
}
