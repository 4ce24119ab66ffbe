package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"okrdeck/models"
	"okrdeck/services"
)

type WebhookController struct {
	webhooks *services.WebhookService
}

func NewWebhookController(webhooks *services.WebhookService) *WebhookController {
	return &WebhookController{webhooks: webhooks}
}

// HandleGithub ingests a push payload. Unrecognized actions and empty
// commit lists are accepted with an "ignored" result, not an error.
func (c *WebhookController) HandleGithub(ctx *gin.Context) {
	var payload models.PushPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, c.webhooks.HandlePush(payload))
}

func (c *WebhookController) HandleEmail(ctx *gin.Context) {
	var signal models.EmailSignal
	if err := ctx.ShouldBindJSON(&signal); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, c.webhooks.HandleEmailSignal(signal))
}

func (c *WebhookController) HandleCalendar(ctx *gin.Context) {
	var signal models.CalendarSignal
	if err := ctx.ShouldBindJSON(&signal); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, c.webhooks.HandleCalendarSignal(signal))
}
