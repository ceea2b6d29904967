package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/config"
	"github.com/lentera-labs/campus-api/internal/handler"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
	"github.com/lentera-labs/campus-api/internal/router"
	"github.com/lentera-labs/campus-api/internal/service"
)

// actingUser is what the stubbed token middleware injects into the request.
type actingUser struct {
	ID       uint
	Role     string
	Username string
}

type testStorage struct{}

func (t *testStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://cdn.example.com/" + name, nil
}

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	actor *actingUser
}

func (ta *testApp) actAs(user models.User) {
	ta.actor.ID = user.ID
	ta.actor.Role = user.Role
	ta.actor.Username = user.Username
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	logRepo := repository.NewSystemLogRepository(db)

	authService := service.NewAuthService(userRepo, classRepo, applicationRepo, validate, logger, "test-secret", time.Hour)
	classService := service.NewClassService(classRepo, userRepo, validate, logger)
	applicationService := service.NewApplicationService(applicationRepo, classRepo, userRepo, validate, logger)
	activityService := service.NewActivityService(activityRepo, userRepo, validate, logger)
	participationService := service.NewParticipationService(participationRepo, activityRepo, userRepo, logger)
	goalService := service.NewGoalService(goalRepo, userRepo, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, userRepo, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, validate, logger)
	dashboardService := service.NewDashboardService(classRepo, activityRepo, goalRepo, participationRepo, nil, time.Minute, logger)
	auditService := service.NewAuditService(logRepo, nil, "", logger)
	avatarService := service.NewAvatarService(&testStorage{}, userRepo, 5, logger)
	adminService := service.NewAdminService(classRepo, userRepo, activityRepo, validate, logger)

	actor := &actingUser{}
	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "test-secret"}, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, avatarService, auditService, logger),
		ClassHandler:       handler.NewClassHandler(classService, auditService, logger),
		ApplicationHandler: handler.NewApplicationHandler(applicationService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, participationService, auditService, logger),
		GoalHandler:        handler.NewGoalHandler(goalService, logger),
		EvaluationHandler:  handler.NewEvaluationHandler(evaluationService, logger),
		FeedbackHandler:    handler.NewFeedbackHandler(feedbackService, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		AdminHandler:       handler.NewAdminHandler(adminService, auditService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if actor.ID == 0 {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			c.Locals("user_id", actor.ID)
			c.Locals("user_role", actor.Role)
			c.Locals("username", actor.Username)
			return c.Next()
		},
	})

	return &testApp{app: app, db: db, actor: actor}
}

func createUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Name:         username,
		Email:        username + "@campus.test",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
