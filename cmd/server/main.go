package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/api"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/session"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/source"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.LogKV("error", "invalid configuration", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	logging.LogKV("info", "Storefront Service starting", map[string]interface{}{
		"git_sha":    os.Getenv("GIT_SHA"),
		"build_time": os.Getenv("BUILD_TIME"),
		"source":     cfg.Source,
	})

	// Initialize the catalog source (non-fatal; allow process to start for /live)
	src, closeSource, err := source.Open(context.Background(), cfg)
	if err != nil {
		logging.LogKV("warn", "Catalog source initialization failed at startup", map[string]interface{}{"error": err.Error()})
	}
	defer closeSource()

	repo := catalog.NewRepository(src)
	pageOptions := []catalog.PageOption{
		catalog.WithPlaceholder(cfg.PlaceholderImage),
		catalog.WithFetchTimeout(cfg.FetchTimeout),
	}
	pages, err := session.NewRegistry(cfg.MaxPageSessions, func() *catalog.Page {
		return catalog.NewPage(repo, catalog.NewSearchTerm(), pageOptions...)
	})
	if err != nil {
		logging.LogKV("error", "Failed to create page registry", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	handler := api.NewHandler(repo, pages, pageOptions...)
	router := setupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.LogKV("info", "Starting server", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogKV("error", "Failed to start server", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.LogKV("info", "Shutting down server...", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.LogKV("error", "Server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}

func setupRouter(cfg *config.Config, handler *api.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	// Health and readiness endpoints
	router.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/ready", handler.Health)
	router.GET("/health", handler.Health)

	api.RegisterRoutes(router.Group("/api/v1"), handler)

	// Root endpoint for basic info
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "storefront-service",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	return router
}
