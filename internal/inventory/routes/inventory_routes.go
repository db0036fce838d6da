package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/common/middlewares"
	"github.com/swasthyaflow/backend/internal/inventory/controllers"
)

func RegisterInventoryRoutes(e *echo.Echo, ic *controllers.InventoryController) {
	api := e.Group("/api/inventory")
	api.GET("/:hospital_id", ic.ListItemsHandler)
	api.POST("/:hospital_id", ic.UpsertItemHandler, middlewares.JWTMiddleware())
}
