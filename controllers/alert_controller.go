package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"okrdeck/services"
)

type AlertController struct {
	store *services.GoalStore
}

func NewAlertController(store *services.GoalStore) *AlertController {
	return &AlertController{store: store}
}

func (c *AlertController) GetAlerts(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}

	alerts, err := c.store.Alerts(goalID, 0)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}

	ctx.JSON(http.StatusOK, alerts)
}

func (c *AlertController) AcknowledgeAlert(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}
	alertID, err := uuid.Parse(ctx.Param("alertId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}

	if err := c.store.AcknowledgeAlert(goalID, alertID); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) || errors.Is(err, services.ErrAlertNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusOK)
}
