package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// GoalHandler wires learning goal HTTP routes.
type GoalHandler struct {
	goals  service.GoalService
	logger zerolog.Logger
}

// NewGoalHandler constructs the handler.
func NewGoalHandler(goals service.GoalService, logger zerolog.Logger) *GoalHandler {
	return &GoalHandler{
		goals:  goals,
		logger: logger.With().Str("component", "goal_handler").Logger(),
	}
}

// RegisterTeacher attaches the teacher-facing endpoints.
func (h *GoalHandler) RegisterTeacher(router fiber.Router) {
	router.Get("", h.listMine)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterStudent attaches the student-facing endpoints.
func (h *GoalHandler) RegisterStudent(router fiber.Router) {
	router.Get("", h.listForStudent)
	router.Post("/:id/progress", h.updateProgress)
}

func (h *GoalHandler) create(c *fiber.Ctx) error {
	var payload dto.GoalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	goal, err := h.goals.Create(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "goal created", goal)
}

func (h *GoalHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GoalUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	goal, err := h.goals.Update(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "goal updated", goal)
}

func (h *GoalHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.goals.Delete(c.Context(), id, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "goal deleted", fiber.Map{"id": id})
}

func (h *GoalHandler) listMine(c *fiber.Ctx) error {
	goals, err := h.goals.ListForTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "goals retrieved", goals)
}

func (h *GoalHandler) listForStudent(c *fiber.Ctx) error {
	goals, err := h.goals.ListForStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "goals retrieved", goals)
}

func (h *GoalHandler) updateProgress(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload struct {
		Progress int `json:"progress"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	goal, err := h.goals.UpdateProgress(c.Context(), id, userIDFromContext(c), payload.Progress)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "progress updated", goal)
}

func (h *GoalHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "goal not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotGoalOwner):
		return utils.SendError(c, fiber.StatusForbidden, "goal does not belong to you")
	case errors.Is(err, service.ErrNotStudentRole):
		return utils.SendError(c, fiber.StatusBadRequest, "user is not a student")
	case errors.Is(err, service.ErrInvalidGoalStatus):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid goal status")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *GoalHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
