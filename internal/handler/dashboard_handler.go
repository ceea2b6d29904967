package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/service"
	"github.com/lentera-labs/campus-api/internal/utils"
)

// DashboardHandler wires dashboard HTTP routes.
type DashboardHandler struct {
	dashboards service.DashboardService
	logger     zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboards service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		logger:     logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterTeacher attaches the teacher dashboard endpoint.
func (h *DashboardHandler) RegisterTeacher(router fiber.Router) {
	router.Get("/dashboard", h.teacherDashboard)
}

// RegisterStudent attaches the student dashboard endpoint.
func (h *DashboardHandler) RegisterStudent(router fiber.Router) {
	router.Get("/dashboard", h.studentDashboard)
}

func (h *DashboardHandler) teacherDashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboards.TeacherDashboard(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) studentDashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboards.StudentDashboard(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
