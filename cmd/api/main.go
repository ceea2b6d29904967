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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/config"
	"github.com/lentera-labs/campus-api/internal/database"
	"github.com/lentera-labs/campus-api/internal/handler"
	"github.com/lentera-labs/campus-api/internal/middleware"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
	"github.com/lentera-labs/campus-api/internal/router"
	"github.com/lentera-labs/campus-api/internal/service"
	cloud "github.com/lentera-labs/campus-api/pkg/cloudinary"
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

	if err := db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.ClassStudent{},
		&models.ClassApplication{},
		&models.Activity{},
		&models.ActivityParticipation{},
		&models.LearningGoal{},
		&models.Evaluation{},
		&models.Feedback{},
		&models.SystemLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	systemLogRepo := repository.NewSystemLogRepository(db)

	auditService := service.NewAuditService(systemLogRepo, natsConn, cfg.AuditSubject, logger)
	authService := service.NewAuthService(userRepo, classRepo, applicationRepo, validate, logger, cfg.JWTSecret, cfg.JWTTokenTTL)
	classService := service.NewClassService(classRepo, userRepo, validate, logger)
	applicationService := service.NewApplicationService(applicationRepo, classRepo, userRepo, validate, logger)
	activityService := service.NewActivityService(activityRepo, userRepo, validate, logger)
	participationService := service.NewParticipationService(participationRepo, activityRepo, userRepo, logger)
	goalService := service.NewGoalService(goalRepo, userRepo, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, userRepo, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, validate, logger)
	dashboardService := service.NewDashboardService(classRepo, activityRepo, goalRepo, participationRepo, redisClient, cfg.DashboardCacheTTL, logger)
	avatarService := service.NewAvatarService(uploader, userRepo, cfg.AvatarMaxSizeMB, logger)
	adminService := service.NewAdminService(classRepo, userRepo, activityRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, avatarService, auditService, logger),
		ClassHandler:       handler.NewClassHandler(classService, auditService, logger),
		ApplicationHandler: handler.NewApplicationHandler(applicationService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, participationService, auditService, logger),
		GoalHandler:        handler.NewGoalHandler(goalService, logger),
		EvaluationHandler:  handler.NewEvaluationHandler(evaluationService, logger),
		FeedbackHandler:    handler.NewFeedbackHandler(feedbackService, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		AdminHandler:       handler.NewAdminHandler(adminService, auditService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
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
