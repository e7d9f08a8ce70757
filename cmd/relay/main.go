package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/chat-relay/internal/language"
	"github.com/richxcame/chat-relay/internal/preferences"
	"github.com/richxcame/chat-relay/internal/relay"
	"github.com/richxcame/chat-relay/internal/translation"
	"github.com/richxcame/chat-relay/pkg/common"
	"github.com/richxcame/chat-relay/pkg/config"
	"github.com/richxcame/chat-relay/pkg/health"
	"github.com/richxcame/chat-relay/pkg/logger"
	"github.com/richxcame/chat-relay/pkg/middleware"
	"github.com/richxcame/chat-relay/pkg/redis"
	ws "github.com/richxcame/chat-relay/pkg/websocket"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load("chat-relay")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Sentry error reporting
	if cfg.Sentry.Enabled && cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     "chat-relay@" + version,
		}); err != nil {
			logger.Warn("Sentry initialization failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Preference store backend
	healthChecks := map[string]func() error{}
	var prefStore preferences.Store
	switch cfg.Prefs.Backend {
	case "redis":
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		prefStore = preferences.NewRedisStore(redisClient.Client)
		healthChecks["redis"] = health.RedisChecker(redisClient.Client)
		logger.Info("Using Redis preference store", zap.String("addr", cfg.Redis.RedisAddr()))
	default:
		prefStore = preferences.NewMemoryStore()
		logger.Info("Using in-memory preference store")
	}

	// Translation and detection
	translator := translation.FromConfig(&cfg.Translation, logger.Get())
	detector := language.NewFromConfig(&cfg.Detector)
	if cfg.Translation.Mode == "libretranslate" {
		healthChecks["translator"] = health.HTTPEndpointChecker(cfg.Translation.BaseURL + "/languages")
	}

	// WebSocket hub and relay wiring
	hub := ws.NewHub()
	hub.SetLogger(logger.Get())
	relay.NewService(hub, prefStore, translator, detector, logger.Get())
	go hub.Run()
	logger.Info("WebSocket hub started")

	handler := relay.NewHandler(hub, logger.Get())

	// Set up Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics("chat-relay"))
	router.Use(middleware.SecurityHeaders())
	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if cfg.Server.CORSOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	// Health check and metrics
	if len(healthChecks) > 0 {
		router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, version, healthChecks))
	} else {
		router.GET("/healthz", common.HealthCheck(cfg.Server.ServiceName, version))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		// WebSocket connection; identity is the userId query parameter
		api.GET("/ws", handler.HandleWebSocket)

		// Stats endpoint guarded by a request deadline
		api.GET("/stats", timeout.New(
			timeout.WithTimeout(5*time.Second),
			timeout.WithHandler(handler.GetStats),
		))
	}

	// Demo client page
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Server.StaticDir))))

	// Start server
	addr := ":" + cfg.Server.Port
	logger.Info("Chat relay starting",
		zap.String("port", cfg.Server.Port),
		zap.String("environment", cfg.Server.Environment),
	)
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
