package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/common/middlewares"
	"github.com/swasthyaflow/backend/internal/registry/controllers"
)

func RegisterRegistryRoutes(e *echo.Echo, rc *controllers.RegistryController) {
	api := e.Group("/api")

	api.GET("/cities", rc.ListCitiesHandler)
	api.POST("/cities", rc.AddCityHandler, middlewares.JWTMiddleware())

	api.GET("/hospitals", rc.ListHospitalsHandler)
	api.POST("/hospitals", rc.AddHospitalHandler, middlewares.JWTMiddleware())
	api.PUT("/beds/:hospital_id", rc.UpdateBedsHandler, middlewares.JWTMiddleware())

	api.GET("/patients", rc.ListPatientsHandler)
	api.POST("/patients", rc.AddPatientHandler, middlewares.JWTMiddleware())

	api.GET("/analytics/patient_flow", rc.PatientFlowHandler, middlewares.JWTMiddleware())
}
