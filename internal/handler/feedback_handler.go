package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// FeedbackHandler wires feedback HTTP routes.
type FeedbackHandler struct {
	feedbacks service.FeedbackService
	logger    zerolog.Logger
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(feedbacks service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbacks: feedbacks,
		logger:    logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// RegisterStudent attaches the student-facing endpoints.
func (h *FeedbackHandler) RegisterStudent(router fiber.Router) {
	router.Get("", h.listForStudent)
	router.Post("", h.send)
}

// RegisterTeacher attaches the teacher-facing endpoints.
func (h *FeedbackHandler) RegisterTeacher(router fiber.Router) {
	router.Get("", h.listForTeacher)
	router.Post("/:id/reply", h.reply)
}

func (h *FeedbackHandler) send(c *fiber.Ctx) error {
	var payload dto.FeedbackCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedbacks.Send(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback sent", feedback)
}

func (h *FeedbackHandler) reply(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FeedbackReplyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.feedbacks.Reply(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "reply sent", feedback)
}

func (h *FeedbackHandler) listForStudent(c *fiber.Ctx) error {
	feedbacks, err := h.feedbacks.ListForStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "feedback retrieved", feedbacks)
}

func (h *FeedbackHandler) listForTeacher(c *fiber.Ctx) error {
	feedbacks, err := h.feedbacks.ListForTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "feedback retrieved", feedbacks)
}

func (h *FeedbackHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFeedbackNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "feedback not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotFeedbackRecipient):
		return utils.SendError(c, fiber.StatusForbidden, "feedback is not addressed to you")
	case errors.Is(err, service.ErrNotTeacherRole):
		return utils.SendError(c, fiber.StatusBadRequest, "user is not a teacher")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *FeedbackHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
