package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/billing/controllers"
	"github.com/swasthyaflow/backend/internal/common/middlewares"
)

func RegisterBillingRoutes(e *echo.Echo, bc *controllers.BillingController) {
	api := e.Group("/api/billing", middlewares.JWTMiddleware())
	api.GET("/expenses/:hospital_id", bc.ListExpensesHandler)
	api.POST("/expenses/:hospital_id", bc.AddExpenseHandler)
	api.GET("/bill/:patient_id", bc.GenerateBillHandler)
}
