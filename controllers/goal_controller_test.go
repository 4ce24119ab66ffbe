package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okrdeck/config"
	"okrdeck/controllers"
	"okrdeck/models"
	"okrdeck/routes"
	"okrdeck/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.GoalStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scorer := services.NewScoreService()
	store := services.NewGoalStore(scorer, services.NewAlertService(), nil, nil)
	webhookSvc := services.NewWebhookService(store, services.NewCommitService(), nil)
	dashboardSvc := services.NewDashboardService(store, scorer, config.DefaultLimits())

	router := gin.New()
	routes.SetupGoalRoutes(router, controllers.NewGoalController(store), controllers.NewAlertController(store))
	routes.SetupWebhookRoutes(router, controllers.NewWebhookController(webhookSvc))
	routes.SetupDashboardRoutes(router, controllers.NewDashboardController(dashboardSvc, "http://localhost:8080"))
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateGoalEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/goals", gin.H{
		"title":  "Ship the mobile app",
		"reach":  8,
		"impact": 9,
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var goal models.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goal))
	assert.NotEqual(t, uuid.Nil, goal.ID)
	assert.Equal(t, "Ship the mobile app", goal.Title)
	assert.Equal(t, models.GoalStatusNotStarted, goal.Status)
	assert.NotZero(t, goal.Score.Score)
}

func TestUpdateProgressEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	goal := store.CreateGoal(services.CreateGoalInput{Title: "Ship"})

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/goals/%s/progress", goal.ID), gin.H{
		"progress": 120,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var event models.ProgressEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.Equal(t, 100.0, event.NewValue)
	assert.Equal(t, models.ProgressSourceManual, event.Source)
}

func TestUpdateProgressEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/goals/%s/progress", uuid.New()), gin.H{
		"progress": 50,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGithubWebhookEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	goal := store.CreateGoal(services.CreateGoalInput{
		Title:       "API revamp",
		AutoTracked: true,
		Integrations: models.Integrations{
			Github: &models.GithubIntegration{Repository: "api", Weight: 80},
		},
	})

	rec := doJSON(t, router, http.MethodPost, "/api/webhooks/github", gin.H{
		"action":     "pushed",
		"repository": gin.H{"name": "api", "full_name": "acme/api"},
		"commits": []gin.H{
			{"id": "abc1234", "message": "feat: add pagination", "added": []string{"page.go"}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := store.GetGoal(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Progress)
}

func TestGithubWebhookIgnoresOtherActions(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/webhooks/github", gin.H{
		"action":     "opened",
		"repository": gin.H{"name": "api"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Ignored)
}

func TestDashboardEndpointEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var dashboard services.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
	assert.Equal(t, 0, dashboard.TotalGoals)
	assert.Equal(t, 0.0, dashboard.AverageProgress)
}

func TestDashboardQREndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard/qr", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestAcknowledgeAlertEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	goal := store.CreateGoal(services.CreateGoalInput{Title: "Win"})
	_, err := store.UpdateProgress(goal.ID, 100, models.ProgressSourceManual, nil)
	require.NoError(t, err)

	alerts, err := store.Alerts(goal.ID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, alerts)

	rec := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/goals/%s/alerts/%s/ack", goal.ID, alerts[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/goals/%s/alerts/%s/ack", goal.ID, uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
