package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskbot/internal/cache"
	"taskbot/internal/config"
	"taskbot/internal/handler"
	"taskbot/internal/logger"
	"taskbot/internal/middleware"
	"taskbot/internal/repository"
	"taskbot/internal/service"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logger.Info("✅ Connected to database")

	// Run migrations
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	logger.Info("✅ Migrations applied")

	// Setup Redis
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("❌ invalid REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("❌ failed to connect to Redis: %w", err)
	}
	logger.Info("✅ Connected to Redis")

	// Setup Gin
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())

	// Initialize repositories and cache
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	redisCache := cache.NewRedisCache(redisClient)

	// Initialize services
	taskService := service.NewTaskService(taskRepo, userRepo, redisCache)
	userService := service.NewUserService(userRepo, redisCache)

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(userService)

	// Public routes
	r.GET("/health", taskHandler.HealthCheck)

	// Protected routes - the chat gateway authenticates with a signed token
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware())
	{
		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/overview", taskHandler.Overview)
		authorized.GET("/tasks/reminders", taskHandler.Reminders)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/assign", taskHandler.Assign)
		authorized.POST("/tasks/:id/status", taskHandler.SetStatus)
		authorized.POST("/tasks/:id/complete", taskHandler.Complete)
		authorized.POST("/tasks/:id/reopen", taskHandler.Reopen)
		authorized.POST("/tasks/:id/due-date", taskHandler.SetDueDate)

		// User routes
		authorized.POST("/users/me", userHandler.Me)
		authorized.POST("/users/bulk", userHandler.BulkAdd)
		authorized.POST("/users/:id/promote", userHandler.Promote)
		authorized.POST("/users/:id/demote", userHandler.Demote)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Redis:  redisClient,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logger.Info("🚀 Server running on port " + s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("❌ Failed to listen", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", err)
		os.Exit(1)
	}

	if err := s.Redis.Close(); err != nil {
		logger.Error("⚠️  Failed to close Redis client", err)
	}

	logger.Info("✅ Server exited properly")
}
