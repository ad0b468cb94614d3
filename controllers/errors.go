// controllers/errors.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitalroots/referral_backend/models"
	"github.com/vitalroots/referral_backend/services"
)

// respondError translates core business errors into the HTTP statuses and
// {"detail": ...} bodies the browser client consumes. Unknown errors are
// logged and masked.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	detail := "Internal server error"

	switch {
	case errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrUnknownCoupon),
		errors.Is(err, services.ErrCommissionNotFound):
		status = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, services.ErrDuplicatePhone),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
		detail = err.Error()
	case errors.Is(err, services.ErrNotBeneficiary):
		status = http.StatusForbidden
		detail = err.Error()
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
		detail = err.Error()
	default:
		log.Printf("ERROR: %v", err)
	}

	return c.JSON(status, models.ErrorResponse{Detail: detail})
}
