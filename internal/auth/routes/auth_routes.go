package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/auth/controllers"
	"github.com/swasthyaflow/backend/internal/common/middlewares"
)

func RegisterAuthRoutes(e *echo.Echo, ac *controllers.AuthController) {
	auth := e.Group("/api/auth")
	auth.POST("/login", ac.Login)
	auth.POST("/register", ac.Register, middlewares.JWTMiddleware(), middlewares.RequireRole("admin"))
}
