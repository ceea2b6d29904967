package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// AuthHandler wires authentication and profile HTTP routes.
type AuthHandler struct {
	auth    service.AuthService
	avatars service.AvatarService
	audit   service.AuditService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth service.AuthService, avatars service.AvatarService, audit service.AuditService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		avatars: avatars,
		audit:   audit,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated endpoints.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

// RegisterProtected attaches the endpoints that require a valid token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/profile", h.profile)
	router.Patch("/profile", h.updateProfile)
	router.Post("/password", h.changePassword)
	router.Post("/avatar", h.uploadAvatar)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpUserRegister,
		Detail:        "account registered",
		UserID:        &user.ID,
		UserRole:      user.Role,
		IPAddress:     c.IP(),
	})

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpUserLogin,
		Detail:        "user logged in",
		UserID:        &result.User.ID,
		UserRole:      result.User.Role,
		IPAddress:     c.IP(),
	})

	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	user, err := h.auth.Profile(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID := userIDFromContext(c)
	user, err := h.auth.UpdateProfile(c.Context(), userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpUserUpdate,
		Detail:        "profile updated",
		UserID:        &userID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
	})

	return utils.SendSuccess(c, "profile updated", user)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID := userIDFromContext(c)
	if err := h.auth.ChangePassword(c.Context(), userID, payload); err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpUserUpdate,
		Detail:        "password changed",
		UserID:        &userID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
	})

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) uploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	result, err := h.avatars.Upload(c.Context(), file, userIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarMissing):
			return utils.SendError(c, fiber.StatusBadRequest, "avatar file is required")
		case errors.Is(err, service.ErrAvatarTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "avatar exceeds maximum allowed size")
		case errors.Is(err, service.ErrAvatarNotImage):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "avatar must be an image")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccess(c, "avatar uploaded", result)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return utils.SendError(c, fiber.StatusConflict, "username already taken")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrWrongPassword):
		return utils.SendError(c, fiber.StatusBadRequest, "current password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidRole):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AuthHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
