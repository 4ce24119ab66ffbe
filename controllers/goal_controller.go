package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"okrdeck/models"
	"okrdeck/services"
)

type GoalController struct {
	store *services.GoalStore
}

func NewGoalController(store *services.GoalStore) *GoalController {
	return &GoalController{store: store}
}

type createGoalRequest struct {
	OwnerID      uuid.UUID           `json:"owner_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Tags         []string            `json:"tags"`
	Priority     models.GoalPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	AutoTracked  bool                `json:"auto_tracked"`
	Integrations models.Integrations `json:"integrations"`
	Reach        float64             `json:"reach"`
	Impact       float64             `json:"impact"`
	Confidence   float64             `json:"confidence"`
	Effort       float64             `json:"effort"`
}

func (c *GoalController) CreateGoal(ctx *gin.Context) {
	var req createGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := c.store.CreateGoal(services.CreateGoalInput{
		OwnerID:      req.OwnerID,
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		AutoTracked:  req.AutoTracked,
		Integrations: req.Integrations,
		Reach:        req.Reach,
		Impact:       req.Impact,
		Confidence:   req.Confidence,
		Effort:       req.Effort,
	})

	ctx.JSON(http.StatusCreated, goal)
}

func (c *GoalController) GetGoals(ctx *gin.Context) {
	ownerID := uuid.Nil
	if raw := ctx.Query("owner_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner ID"})
			return
		}
		ownerID = parsed
	}

	ctx.JSON(http.StatusOK, c.store.ListGoals(ownerID))
}

func (c *GoalController) GetGoal(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}

	goal, err := c.store.GetGoal(goalID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}

	ctx.JSON(http.StatusOK, goal)
}

type updateGoalRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Tags         *[]string            `json:"tags"`
	Priority     *models.GoalPriority `json:"priority"`
	DueDate      *time.Time           `json:"due_date"`
	AutoTracked  *bool                `json:"auto_tracked"`
	Blocked      *bool                `json:"blocked"`
	Integrations *models.Integrations `json:"integrations"`
	Reach        *float64             `json:"reach"`
	Impact       *float64             `json:"impact"`
	Confidence   *float64             `json:"confidence"`
	Effort       *float64             `json:"effort"`
}

func (c *GoalController) UpdateGoal(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}

	var req updateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := c.store.UpdateGoal(goalID, services.UpdateGoalInput{
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		AutoTracked:  req.AutoTracked,
		Blocked:      req.Blocked,
		Integrations: req.Integrations,
		Reach:        req.Reach,
		Impact:       req.Impact,
		Confidence:   req.Confidence,
		Effort:       req.Effort,
	})
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}

	ctx.JSON(http.StatusOK, goal)
}

func (c *GoalController) DeleteGoal(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}

	if err := c.store.DeleteGoal(goalID); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}

	ctx.Status(http.StatusOK)
}

type updateProgressRequest struct {
	Progress float64               `json:"progress"`
	Source   models.ProgressSource `json:"source"`
	Details  *models.EventDetails  `json:"details"`
}

func (c *GoalController) UpdateProgress(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}

	var req updateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = models.ProgressSourceManual
	}

	event, err := c.store.UpdateProgress(goalID, req.Progress, req.Source, req.Details)
	if err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, event)
}

func (c *GoalController) GetHistory(ctx *gin.Context) {
	goalID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return
	}

	history, err := c.store.History(goalID, 0)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}

	ctx.JSON(http.StatusOK, history)
}
