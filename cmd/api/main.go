package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/khoabkhn-byte/quizdesk-api/internal/config"
	"github.com/khoabkhn-byte/quizdesk-api/internal/database"
	"github.com/khoabkhn-byte/quizdesk-api/internal/handler"
	"github.com/khoabkhn-byte/quizdesk-api/internal/middleware"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
	"github.com/khoabkhn-byte/quizdesk-api/internal/router"
	"github.com/khoabkhn-byte/quizdesk-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Question{}, &models.Test{}, &models.Assignment{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	testRepo := repository.NewTestRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	resolver := service.NewQuestionResolver(questionRepo, logger)

	userService := service.NewUserService(userRepo, validate, cfg.JWTSecret, cfg.JWTExpiry, logger)
	questionService := service.NewQuestionService(questionRepo, validate, logger)
	testService := service.NewTestService(testRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, testRepo, resolver, validate, logger)
	dashboardService := service.NewStudentDashboardService(assignmentRepo, redisClient, cfg.DashboardCacheTTL, logger)

	userHandler := handler.NewUserHandler(userService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	testHandler := handler.NewTestHandler(testService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	dashboardHandler := handler.NewStudentDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		UserHandler:       userHandler,
		QuestionHandler:   questionHandler,
		TestHandler:       testHandler,
		AssignmentHandler: assignmentHandler,
		DashboardHandler:  dashboardHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
