package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/repository"
	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// AdminHandler wires administrator HTTP routes.
type AdminHandler struct {
	admin  service.AdminService
	audit  service.AuditService
	logger zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(admin service.AdminService, audit service.AuditService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		audit:  audit,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin endpoints.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/users", h.listUsers)
	router.Get("/teachers/unassigned", h.listUnassignedTeachers)
	router.Get("/classes", h.listClasses)
	router.Post("/classes", h.createClass)
	router.Post("/classes/:id/teacher/:teacherId", h.reassignClass)
	router.Get("/logs", h.listLogs)
}

func (h *AdminHandler) overview(c *fiber.Ctx) error {
	overview, err := h.admin.Overview(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "overview retrieved", overview)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	role := strings.ToUpper(strings.TrimSpace(c.Query("role")))
	users, err := h.admin.ListUsers(c.Context(), role)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *AdminHandler) listUnassignedTeachers(c *fiber.Ctx) error {
	teachers, err := h.admin.ListUnassignedTeachers(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *AdminHandler) listClasses(c *fiber.Ctx) error {
	classes, err := h.admin.ListClasses(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *AdminHandler) createClass(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.admin.CreateClass(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *AdminHandler) reassignClass(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	teacherID, err := parseUintParam(c, "teacherId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.admin.ReassignClass(c.Context(), classID, teacherID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "class reassigned", class)
}

func (h *AdminHandler) listLogs(c *fiber.Ctx) error {
	filter := repository.SystemLogFilter{
		OperationType: strings.TrimSpace(c.Query("operation_type")),
		UserRole:      strings.ToUpper(strings.TrimSpace(c.Query("role"))),
		Limit:         c.QueryInt("limit"),
	}
	if since := c.Query("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid since timestamp")
		}
		filter.Since = &parsed
	}
	if until := c.Query("until"); until != "" {
		parsed, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid until timestamp")
		}
		filter.Until = &parsed
	}

	entries, err := h.audit.List(c.Context(), filter)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "logs retrieved", entries)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotTeacherRole):
		return utils.SendError(c, fiber.StatusBadRequest, "user is not a teacher")
	case errors.Is(err, service.ErrTeacherRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "a teacher must be assigned")
	case errors.Is(err, service.ErrInvalidRole):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AdminHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
