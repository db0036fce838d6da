package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/common/middlewares"
	"github.com/swasthyaflow/backend/internal/opd/controllers"
)

// RegisterOPDRoutes wires the queueing endpoints. Read endpoints are
// public (waiting-room displays poll them); mutations require a token.
func RegisterOPDRoutes(e *echo.Echo, qc *controllers.QueueController) {
	opd := e.Group("/api/opd")

	opd.GET("/metrics", qc.QueueMetricsHandler)
	opd.GET("/queue/:department_id", qc.QueueStatusHandler)
	opd.GET("/queue/history", qc.QueueHistoryHandler)

	opd.POST("/queue", qc.JoinQueueHandler)
	opd.POST("/availability", qc.AvailabilityHandler, middlewares.JWTMiddleware())
	opd.POST("/serve", qc.ServePatientHandler, middlewares.JWTMiddleware())

	dispatch := opd.Group("/dispatch", middlewares.JWTMiddleware())
	dispatch.POST("", qc.DispatchAddHandler)
	dispatch.GET("/next", qc.DispatchNextHandler)
}
