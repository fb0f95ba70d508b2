package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanban-board/backend/internal/cache"
	"kanban-board/backend/internal/config"
	"kanban-board/backend/internal/database"
	"kanban-board/backend/internal/handlers"
	"kanban-board/backend/internal/middleware"
	"kanban-board/backend/internal/monitoring"
	"kanban-board/backend/internal/projection"
	"kanban-board/backend/internal/routes"
	"kanban-board/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := newLogger(cfg)

	gormLogLevel := logger.Info
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		gormLogLevel = logger.Warn
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormLogLevel,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(pool.DB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	redisCache := cache.NewRedisCache(&cache.Config{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	var directoryCache cache.Cache
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.WithError(err).Warn("redis unavailable, email directory cache disabled")
	} else {
		directoryCache = redisCache
		defer redisCache.Close()
	}
	cancelPing()

	db := pool.DB

	userService := services.NewUserService(db, directoryCache)
	registerService := services.NewRegisterService(db)
	authService := services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	boardService := services.NewBoardService(db)
	membershipValidator := services.NewMembershipValidator(db)
	taskService := services.NewTaskService(db, membershipValidator)
	commentService := services.NewCommentService(db)
	projector := projection.NewProjector(db)

	boardPolicy := services.NewBoardPolicy(db)
	taskPolicy := services.NewTaskPolicy(db)
	commentPolicy := services.NewCommentPolicy(db)

	metrics := monitoring.NewMetrics()
	health := monitoring.NewHealthChecker()
	health.Register("database", func(ctx context.Context) error { return pool.Health() })
	if directoryCache != nil {
		health.Register("cache", redisCache.Ping)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstSize,
			cfg.RateLimit.CleanupInterval,
		)
		defer limiter.Stop()
		router.Use(limiter.Middleware())
	}

	routes.SetupRoutes(router, routes.Dependencies{
		Auth:           handlers.NewAuthHandler(registerService, authService, userService),
		Boards:         handlers.NewBoardHandler(boardService, boardPolicy, projector),
		Tasks:          handlers.NewTaskHandler(taskService, taskPolicy, projector),
		Comments:       handlers.NewCommentHandler(commentService, commentPolicy, projector),
		AuthMiddleware: middleware.AuthMiddleware(cfg.Auth.JWTSecret, userService),
		HealthHandler:  health.Handler(metrics),
		MetricsHandler: metrics.Handler(),
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}
