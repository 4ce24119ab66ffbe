package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"okrdeck/services"
)

type DashboardController struct {
	dashboard *services.DashboardService
	publicURL string
}

func NewDashboardController(dashboard *services.DashboardService, publicURL string) *DashboardController {
	return &DashboardController{dashboard: dashboard, publicURL: publicURL}
}

func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	ownerID := uuid.Nil
	if raw := ctx.Query("owner_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner ID"})
			return
		}
		ownerID = parsed
	}

	ctx.JSON(http.StatusOK, c.dashboard.Build(ownerID))
}

// GetQR serves a QR code of the dashboard URL for opening the UI on a phone.
func (c *DashboardController) GetQR(ctx *gin.Context) {
	png, err := qrcode.Encode(c.publicURL, qrcode.Medium, 256)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}
