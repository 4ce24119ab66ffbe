package routes

import (
	"github.com/gin-gonic/gin"

	"okrdeck/controllers"
)

func SetupGoalRoutes(router *gin.Engine, goalController *controllers.GoalController, alertController *controllers.AlertController) {
	goalGroup := router.Group("/api/goals")
	{
		goalGroup.POST("", goalController.CreateGoal)
		goalGroup.GET("", goalController.GetGoals)
		goalGroup.GET("/:id", goalController.GetGoal)
		goalGroup.PUT("/:id", goalController.UpdateGoal)
		goalGroup.DELETE("/:id", goalController.DeleteGoal)
		goalGroup.POST("/:id/progress", goalController.UpdateProgress)
		goalGroup.GET("/:id/history", goalController.GetHistory)
		goalGroup.GET("/:id/alerts", alertController.GetAlerts)
		goalGroup.PUT("/:id/alerts/:alertId/ack", alertController.AcknowledgeAlert)
	}
}
