package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/invtrack/invtrack/handlers"
	"github.com/invtrack/invtrack/internal/auth"
	"github.com/invtrack/invtrack/internal/categories"
	"github.com/invtrack/invtrack/internal/config"
	"github.com/invtrack/invtrack/internal/database"
	"github.com/invtrack/invtrack/internal/items"
	"github.com/invtrack/invtrack/internal/tokens"
	"github.com/invtrack/invtrack/internal/users"
	"github.com/invtrack/invtrack/pkg/logger"
	"github.com/invtrack/invtrack/pkg/metrics"
	"github.com/invtrack/invtrack/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: db=%s github=%v redis=%v", cfg.Database.Driver, cfg.GitHub.ClientID != "", cfg.Redis.Host != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and
	// respond to OPTIONS. Production should sit behind a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}

	// wire repositories, services and handlers
	issuer := tokens.NewIssuer(cfg.JWT)
	usersSvc := users.NewService(users.NewGormRepository(db))
	categoriesSvc := categories.NewService(categories.NewGormRepository(db))
	itemsSvc := items.NewService(items.NewGormRepository(db), categoriesSvc)
	authSvc := auth.NewService(auth.NewGitHubClient(cfg.GitHub), usersSvc, issuer)

	authMW := middleware.Auth(issuer)
	root := r.Group("/")
	handlers.NewAuthHandler(authSvc).Register(root)
	handlers.NewCategoriesHandler(categoriesSvc).Register(root, authMW)
	handlers.NewItemsHandler(itemsSvc).Register(root, authMW)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies respond
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		sqlDB, err := db.DB()
		deps["database"] = err == nil && sqlDB.PingContext(c.Request.Context()) == nil
		if !deps["database"] {
			ready = false
		}

		if cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil && redisClient.Ping(c.Request.Context()).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
