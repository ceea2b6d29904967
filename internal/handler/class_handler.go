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

// ClassHandler wires class and roster HTTP routes.
type ClassHandler struct {
	classes service.ClassService
	audit   service.AuditService
	logger  zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(classes service.ClassService, audit service.AuditService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		classes: classes,
		audit:   audit,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// RegisterTeacher attaches the teacher-facing endpoints.
func (h *ClassHandler) RegisterTeacher(router fiber.Router) {
	router.Get("", h.listMine)
	router.Post("", h.create)
	router.Get("/:id", h.detail)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/students/:studentId", h.addStudent)
	router.Delete("/:id/students/:studentId", h.removeStudent)
}

// RegisterStudent attaches the student-facing endpoints.
func (h *ClassHandler) RegisterStudent(router fiber.Router) {
	router.Get("/joined", h.listJoined)
	router.Get("/available", h.listAvailable)
	router.Get("/:id", h.get)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacherID := userIDFromContext(c)
	class, err := h.classes.Create(c.Context(), payload, teacherID)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpClassCreate,
		Detail:        "class created",
		UserID:        &teacherID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"class_id": class.ID},
	})

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.classes.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.classes.GetDetail(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacherID := userIDFromContext(c)
	class, err := h.classes.Update(c.Context(), id, payload, teacherID)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpClassUpdate,
		Detail:        "class updated",
		UserID:        &teacherID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"class_id": id},
	})

	return utils.SendSuccess(c, "class updated", class)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teacherID := userIDFromContext(c)
	if err := h.classes.Delete(c.Context(), id, teacherID); err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpClassDelete,
		Detail:        "class deleted",
		UserID:        &teacherID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"class_id": id},
	})

	return utils.SendSuccess(c, "class deleted", fiber.Map{"id": id})
}

func (h *ClassHandler) listMine(c *fiber.Ctx) error {
	classes, err := h.classes.ListForTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) listJoined(c *fiber.Ctx) error {
	classes, err := h.classes.ListJoined(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) listAvailable(c *fiber.Ctx) error {
	classes, err := h.classes.ListAvailable(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) addStudent(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teacherID := userIDFromContext(c)
	if err := h.classes.AddStudent(c.Context(), classID, studentID, teacherID); err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpClassAddStudent,
		Detail:        "student added to roster",
		UserID:        &teacherID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"class_id": classID, "student_id": studentID},
	})

	return utils.SendSuccess(c, "student added", fiber.Map{"class_id": classID, "student_id": studentID})
}

func (h *ClassHandler) removeStudent(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teacherID := userIDFromContext(c)
	if err := h.classes.RemoveStudent(c.Context(), classID, studentID, teacherID); err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpClassRemoveStudent,
		Detail:        "student removed from roster",
		UserID:        &teacherID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"class_id": classID, "student_id": studentID},
	})

	return utils.SendSuccess(c, "student removed", fiber.Map{"class_id": classID, "student_id": studentID})
}

func (h *ClassHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotClassOwner):
		return utils.SendError(c, fiber.StatusForbidden, "only the owning teacher may manage this class")
	case errors.Is(err, service.ErrNotStudentRole):
		return utils.SendError(c, fiber.StatusBadRequest, "user is not a student")
	case errors.Is(err, service.ErrAlreadyMember):
		return utils.SendError(c, fiber.StatusConflict, "student is already a member of this class")
	case errors.Is(err, service.ErrStudentNotInClass):
		return utils.SendError(c, fiber.StatusNotFound, "student is not a member of this class")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ClassHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
