package routes

import (
	"github.com/gin-gonic/gin"

	"okrdeck/controllers"
)

func SetupDashboardRoutes(router *gin.Engine, dashboardController *controllers.DashboardController) {
	dashboardGroup := router.Group("/api/dashboard")
	{
		dashboardGroup.GET("", dashboardController.GetDashboard)
		dashboardGroup.GET("/qr", dashboardController.GetQR)
	}
}
