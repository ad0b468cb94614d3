// routes/main_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vitalroots/referral_backend/controllers"
	"github.com/vitalroots/referral_backend/middleware"
	"github.com/vitalroots/referral_backend/websocket"
)

// RegisterPublicRoutes registers the patient-facing surface: registration,
// referral lookup, wallet reads, claims and notifications.
func RegisterPublicRoutes(e *echo.Echo, patientController *controllers.PatientController, referralController *controllers.ReferralController, walletController *controllers.WalletController, notificationController *controllers.NotificationController, hub *websocket.Hub, verify middleware.TokenVerifier) {
	e.POST("/patients/", patientController.CreatePatient)
	e.GET("/patients/:id", patientController.GetPatient)

	e.GET("/ref/:coupon_code", referralController.GetReferralInfo)
	e.POST("/ref/register", referralController.RegisterViaReferral)

	e.GET("/wallet/:patient_id", walletController.GetWallet)
	e.GET("/commission/:patient_id", walletController.GetCommissionHistory)
	e.POST("/commission/:id/claim", walletController.ClaimCommission)

	e.GET("/notifications/:patient_id", notificationController.GetNotifications)
	e.POST("/notifications/:id/read", notificationController.MarkRead)

	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub, websocket.AdminVerifier(verify))
	})
}
