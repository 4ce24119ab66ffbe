package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"okrdeck/config"
	"okrdeck/controllers"
	"okrdeck/routes"
	"okrdeck/services"
	"okrdeck/utils"
)

func main() {
	logger := log.New(os.Stdout, "okrdeck: ", log.LstdFlags)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	hub := utils.NewManager()
	go hub.Start()

	scorer := services.NewScoreService()
	alertSvc := services.NewAlertService()
	store := services.NewGoalStore(scorer, alertSvc, hub, logger)
	commitSvc := services.NewCommitService()
	webhookSvc := services.NewWebhookService(store, commitSvc, logger)
	dashboardSvc := services.NewDashboardService(store, scorer, cfg.Limits)

	goalController := controllers.NewGoalController(store)
	alertController := controllers.NewAlertController(store)
	webhookController := controllers.NewWebhookController(webhookSvc)
	dashboardController := controllers.NewDashboardController(dashboardSvc, cfg.PublicURL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger, cfg.Verbose))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	routes.SetupGoalRoutes(router, goalController, alertController)
	routes.SetupWebhookRoutes(router, webhookController)
	routes.SetupDashboardRoutes(router, dashboardController)

	router.GET("/ws", hub.ServeWs)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	logger.Printf("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}
