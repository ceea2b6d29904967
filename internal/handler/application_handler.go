package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/observability"
	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// ApplicationHandler wires the class-application workflow HTTP routes.
type ApplicationHandler struct {
	applications service.ApplicationService
	logger       zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(applications service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		logger:       logger.With().Str("component", "application_handler").Logger(),
	}
}

// RegisterStudent attaches the student-facing endpoints.
func (h *ApplicationHandler) RegisterStudent(router fiber.Router) {
	router.Get("", h.listMine)
	router.Post("/classes/:classId", h.apply)
	router.Delete("/:id", h.cancel)
}

// RegisterTeacher attaches the teacher-facing endpoints.
func (h *ApplicationHandler) RegisterTeacher(router fiber.Router) {
	router.Get("/pending", h.listPending)
	router.Post("/:id/process", h.process)
	router.Post("/batch", h.batchProcess)
}

func (h *ApplicationHandler) apply(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplyRequest
	if err := c.BodyParser(&payload); err != nil && len(c.Body()) > 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.applications.Apply(c.Context(), userIDFromContext(c), classID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) process(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProcessApplicationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.applications.Process(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	observability.ApplicationDecisions().WithLabelValues(application.Status).Inc()
	return utils.SendSuccess(c, "application processed", application)
}

func (h *ApplicationHandler) batchProcess(c *fiber.Ctx) error {
	var payload dto.BatchProcessRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.applications.BatchProcess(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	for _, item := range result.Results {
		if item.Success {
			observability.ApplicationDecisions().WithLabelValues(item.Status).Inc()
		}
	}
	return utils.SendSuccess(c, "batch processed", result)
}

func (h *ApplicationHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.applications.Cancel(c.Context(), id, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "application cancelled", fiber.Map{"id": id})
}

func (h *ApplicationHandler) listMine(c *fiber.Ctx) error {
	applications, err := h.applications.ListForStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "applications retrieved", applications)
}

func (h *ApplicationHandler) listPending(c *fiber.Ctx) error {
	applications, err := h.applications.ListPendingForTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "applications retrieved", applications)
}

func (h *ApplicationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotStudentRole):
		return utils.SendError(c, fiber.StatusForbidden, "only students may apply")
	case errors.Is(err, service.ErrNotClassOwner):
		return utils.SendError(c, fiber.StatusForbidden, "only the owning teacher may process applications")
	case errors.Is(err, service.ErrNotApplicationOwner):
		return utils.SendError(c, fiber.StatusForbidden, "only the applicant may cancel this application")
	case errors.Is(err, service.ErrApplicationProcessed):
		return utils.SendError(c, fiber.StatusConflict, "application already processed")
	case errors.Is(err, service.ErrDuplicateApplication):
		return utils.SendError(c, fiber.StatusConflict, "a pending application for this class already exists")
	case errors.Is(err, service.ErrAlreadyMember):
		return utils.SendError(c, fiber.StatusConflict, "student is already a member of this class")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ApplicationHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
