// controllers/patient_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/services"
	"github.com/vitalroots/referral_backend/utils"
	"github.com/vitalroots/referral_backend/websocket"
)

// PatientController handles patient registration and lookup
type PatientController struct {
	DB       *mongo.Database
	Registry *services.RegistryService
	Hub      *websocket.Hub
}

// NewPatientController creates a new patient controller
func NewPatientController(db *mongo.Database, registry *services.RegistryService, hub *websocket.Hub) *PatientController {
	return &PatientController{DB: db, Registry: registry, Hub: hub}
}

// CreatePatient registers a root patient (no referrer) and issues their
// coupon code and referral QR.
func (pc *PatientController) CreatePatient(c echo.Context) error {
	var req models.CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)

	patient, err := pc.Registry.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	go utils.NotifyWelcome(pc.DB, pc.Hub, patient)

	return c.JSON(http.StatusCreated, patient)
}

// GetPatient fetches a single patient record by id.
func (pc *PatientController) GetPatient(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid patient id"})
	}

	patient, err := pc.Registry.GetPatient(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, patient)
}
