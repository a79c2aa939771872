package controllers

import (
	"CareLink/handlers"
	"CareLink/middlewares"
	"CareLink/models"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/api/auth/register", ac.Handler.Register)
	router.POST("/api/auth/login", ac.Handler.Login)
	router.POST("/api/auth/refresh", ac.Handler.RefreshToken)
	router.POST("/api/auth/reset-code", ac.Handler.SendResetCode)
	router.POST("/api/auth/reset-password", ac.Handler.ResetPassword)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/api/auth").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/logout", ac.Handler.Logout)
		authGroup.GET("/profile", ac.Handler.Profile)
		authGroup.PUT("/profile", ac.Handler.UpdateProfile)
		authGroup.POST("/change-password", ac.Handler.ChangePassword)
		authGroup.GET("/doctors", ac.Handler.ListDoctors)
	}

	// Admin routes: Requires a valid token and "Admin" role
	adminGroup := router.Group("/api/auth/admin").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleAdmin),
	)
	{
		adminGroup.GET("/pharmacists", ac.Handler.ListPharmacists)
	}
}
