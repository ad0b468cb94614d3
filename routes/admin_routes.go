// routes/admin_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vitalroots/referral_backend/controllers"
	"github.com/vitalroots/referral_backend/middleware"
)

// RegisterAdminRoutes registers the admin surface behind the credential
// gate. Login itself is public; everything else requires x-admin-token or
// a Bearer session token.
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController, verify middleware.TokenVerifier) {
	e.POST("/admin/login", adminController.Login)

	adminGroup := e.Group("/admin")
	adminGroup.Use(middleware.AdminAuth(verify))

	adminGroup.GET("/dashboard", adminController.Dashboard)
	adminGroup.GET("/patients-overview", adminController.PatientsOverview)
	adminGroup.POST("/consultation-complete-by-phone", adminController.CompleteConsultationByPhone)
	adminGroup.POST("/medicine-complete-by-phone", adminController.CompleteMedicineByPhone)
	adminGroup.GET("/commissions", adminController.ListAllCommissions)
	adminGroup.POST("/commissions/:id/approve", adminController.ApproveCommission)
}
