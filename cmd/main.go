package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"social-studio-backend/internal/ai"
	"social-studio-backend/internal/config"
	"social-studio-backend/internal/logger"
	"social-studio-backend/internal/store"
	"social-studio-backend/internal/telemetry"
	"social-studio-backend/middleware"
	"social-studio-backend/routes"
	"social-studio-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if cfg.OTelEnabled {
		shutdownTracer, err := telemetry.InitTracer("social-studio-backend", cfg.OTelEndpoint)
		if err != nil {
			log.Fatal("Failed to init tracing:", err)
		}
		defer shutdownTracer()
	}

	// Flat-file store rooted at the data directory
	st := store.Open(cfg.DataDir)

	// Outbound clients. API keys are read per call so the env endpoints can
	// rotate them without a restart.
	captions := ai.NewCaptionClient(cfg.OpenAIBaseURL, cfg.OpenAIModel, envKey(config.KeyOpenAI))
	images := ai.NewImageClient(cfg.ReplicateBaseURL, cfg.ReplicateModel, envKey("REPLICATE_API_TOKEN"))
	imageHost := services.NewImageHost(cfg.ImgBBBaseURL, envKey(config.KeyImgBB))
	sender := services.AutoSender{
		Brevo:  services.NewBrevoSender(cfg.BrevoBaseURL, cfg.SenderName, cfg.SenderEmail, envKey(config.KeyMail)),
		HasKey: func() bool { return os.Getenv(config.KeyMail) != "" },
	}
	generator := services.NewPostGenerator(st, captions, images, sender)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if cfg.OTelEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupCategoryTopicRoutes(router, st)
	routes.SetupClientRoutes(router, st)
	routes.SetupImageRoutes(router, st, imageHost, cfg.MaxUploadSize)
	routes.SetupPostRoutes(router, st, generator)
	routes.SetupEnvRoutes(router, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

// envKey reads one API key from the process environment at call time.
func envKey(name string) func() string {
	return func() string { return os.Getenv(name) }
}
