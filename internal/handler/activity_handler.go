package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/observability"
	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// ActivityHandler wires activity and participation HTTP routes.
type ActivityHandler struct {
	activities     service.ActivityService
	participations service.ParticipationService
	audit          service.AuditService
	logger         zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(activities service.ActivityService, participations service.ParticipationService, audit service.AuditService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities:     activities,
		participations: participations,
		audit:          audit,
		logger:         logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity endpoints shared by all authenticated users.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/mine", h.listParticipations)
	router.Get("/:id", h.get)
	router.Post("/:id/register", h.register)
	router.Post("/:id/cancel", h.cancel)
	router.Post("/:id/complete", h.complete)
}

// RegisterTeacher attaches the activity management endpoints.
func (h *ActivityHandler) RegisterTeacher(router fiber.Router) {
	router.Get("", h.listMine)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	creatorID := userIDFromContext(c)
	activity, err := h.activities.Create(c.Context(), payload, creatorID)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpActivityCreate,
		Detail:        "activity created",
		UserID:        &creatorID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"activity_id": activity.ID},
	})

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity created", activity)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := h.activities.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActivityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	creatorID := userIDFromContext(c)
	activity, err := h.activities.Update(c.Context(), id, payload, creatorID)
	if err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpActivityUpdate,
		Detail:        "activity updated",
		UserID:        &creatorID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"activity_id": id},
	})

	return utils.SendSuccess(c, "activity updated", activity)
}

func (h *ActivityHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	creatorID := userIDFromContext(c)
	if err := h.activities.Delete(c.Context(), id, creatorID); err != nil {
		return h.handleError(c, err)
	}

	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpActivityDelete,
		Detail:        "activity deleted",
		UserID:        &creatorID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"activity_id": id},
	})

	return utils.SendSuccess(c, "activity deleted", fiber.Map{"id": id})
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	activities, err := h.activities.List(c.Context(), c.Query("type"))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) listMine(c *fiber.Ctx) error {
	activities, err := h.activities.ListForCreator(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) listParticipations(c *fiber.Ctx) error {
	activities, err := h.participations.ListForUser(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "participations retrieved", activities)
}

func (h *ActivityHandler) register(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	activity, err := h.participations.Register(c.Context(), id, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.ParticipationTransitions().WithLabelValues(models.ParticipationRegistered).Inc()
	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpActivityParticipate,
		Detail:        "registered for activity",
		UserID:        &userID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"activity_id": id},
	})

	return utils.SendSuccess(c, "registered", activity)
}

func (h *ActivityHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	activity, err := h.participations.Cancel(c.Context(), id, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.ParticipationTransitions().WithLabelValues(models.ParticipationCancelled).Inc()
	h.audit.Record(c.Context(), service.AuditEntry{
		OperationType: models.OpActivityCancel,
		Detail:        "cancelled activity registration",
		UserID:        &userID,
		UserRole:      userRoleFromContext(c),
		IPAddress:     c.IP(),
		Metadata:      map[string]any{"activity_id": id},
	})

	return utils.SendSuccess(c, "registration cancelled", activity)
}

func (h *ActivityHandler) complete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := h.participations.Complete(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	observability.ParticipationTransitions().WithLabelValues(models.ParticipationCompleted).Inc()
	return utils.SendSuccess(c, "participation completed", activity)
}

func (h *ActivityHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNotActivityCreator):
		return utils.SendError(c, fiber.StatusForbidden, "only the creator may manage this activity")
	case errors.Is(err, service.ErrInvalidActivityType):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity type")
	case errors.Is(err, service.ErrInvalidActivityStatus):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity status")
	case errors.Is(err, service.ErrInvalidTimeRange):
		return utils.SendError(c, fiber.StatusBadRequest, "end time must be after start time")
	case errors.Is(err, service.ErrCapacityBelowCurrent):
		return utils.SendError(c, fiber.StatusBadRequest, "max participants cannot drop below current registrations")
	case errors.Is(err, service.ErrActivityEnded):
		return utils.SendError(c, fiber.StatusConflict, "activity has ended")
	case errors.Is(err, service.ErrActivityFull):
		return utils.SendError(c, fiber.StatusConflict, "activity is full")
	case errors.Is(err, service.ErrAlreadyRegistered):
		return utils.SendError(c, fiber.StatusConflict, "already registered for this activity")
	case errors.Is(err, service.ErrNotRegistered):
		return utils.SendError(c, fiber.StatusNotFound, "not registered for this activity")
	case errors.Is(err, service.ErrParticipationNotActive):
		return utils.SendError(c, fiber.StatusConflict, "registration is not active")
	case errors.Is(err, service.ErrActivityNotCompleted):
		return utils.SendError(c, fiber.StatusConflict, "activity is not completed yet")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ActivityHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
