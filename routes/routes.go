package routes

import (
	"net/http"

	"cart-recovery-service/controllers"
	"cart-recovery-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, controller *controllers.RecoveryController) {
	// Public
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "cart-recovery-service"})
	})

	// Merchant admin only
	admin := router.Group("/", middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/checkouts/abandoned", controller.ListAbandonedCheckouts)
		admin.POST("/notifications/sms", controller.SendRecoverySMS)
	}
}
