package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ai-lead/ai-lead-api/config"
	"github.com/ai-lead/ai-lead-api/internal/handlers"
	"github.com/ai-lead/ai-lead-api/internal/middleware"
	"github.com/ai-lead/ai-lead-api/internal/services"
	"github.com/ai-lead/ai-lead-api/pkg/httpclient"
	"github.com/ai-lead/ai-lead-api/pkg/logger"
	"github.com/ai-lead/ai-lead-api/pkg/metrics"
	"github.com/ai-lead/ai-lead-api/pkg/n8n"
	"github.com/ai-lead/ai-lead-api/pkg/profiling"
	"github.com/ai-lead/ai-lead-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// corsConfig allows every origin for "*", otherwise only the listed ones
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if cfg.AllowAllOrigins() {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}
	corsCfg.AllowOrigins = allowedOrigins
	return corsCfg
}

// setupRouter builds the gin engine with global middleware and all routes
func setupRouter(cfg *config.Config, leadService services.LeadServiceInterface) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(corsConfig(cfg)))

	healthHandler := handlers.NewHealthHandler()
	leadHandler := handlers.NewLeadHandler(leadService)

	router.GET("/", healthHandler.Status)
	router.POST("/lead", middleware.BodySizeLimitMiddleware(cfg.Server.MaxBodyBytes), leadHandler.HandleLead)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting AI Lead API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics()

	if !cfg.WebhookConfigured() {
		logger.Warn("N8N_WEBHOOK_URL is not set, /lead will answer 500 until it is configured")
	}

	httpClient := httpclient.NewStandardClient(time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second)
	webhookClient := n8n.NewClient(cfg.Webhook.URL, httpClient)
	leadService := services.NewLeadService(webhookClient)

	router := setupRouter(cfg, leadService)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Leaves room for a full webhook round trip
		WriteTimeout:   time.Duration(cfg.Webhook.TimeoutSeconds+30) * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
