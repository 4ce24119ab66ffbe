package routes

import (
	"github.com/gin-gonic/gin"

	"okrdeck/controllers"
)

func SetupWebhookRoutes(router *gin.Engine, webhookController *controllers.WebhookController) {
	webhookGroup := router.Group("/api/webhooks")
	{
		webhookGroup.POST("/github", webhookController.HandleGithub)
		webhookGroup.POST("/email", webhookController.HandleEmail)
		webhookGroup.POST("/calendar", webhookController.HandleCalendar)
	}
}
