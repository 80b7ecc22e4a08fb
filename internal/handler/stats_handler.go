package handler

import (
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/middleware"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler serves the leaderboard and per-user reporting endpoints.
type StatsHandler struct {
	statsService service.StatsService
	userService  service.UserService
}

// NewStatsHandler creates a new instance of StatsHandler.
func NewStatsHandler(statsService service.StatsService, userService service.UserService) *StatsHandler {
	return &StatsHandler{statsService: statsService, userService: userService}
}

// GetLeaderboard godoc
// @Summary Top users ranked by correct percentage
// @Tags stats
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.LeaderboardResponse}
// @Security BearerAuth
// @Router /leaderboard [get]
func (h *StatsHandler) GetLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.statsService.GetLeaderboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(leaderboard))
}

// GetPerformance godoc
// @Summary The caller's latest-attempt performance per quiz
// @Tags stats
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.PerformanceResponse}
// @Security BearerAuth
// @Router /performance [get]
func (h *StatsHandler) GetPerformance(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return domain.NewUnauthenticatedError("Authentication required")
	}

	performance, err := h.statsService.GetPerformance(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(performance))
}

// GetUserStats godoc
// @Summary The caller's aggregate history across quizzes
// @Tags stats
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.StatsResponse}
// @Security BearerAuth
// @Router /stats [get]
func (h *StatsHandler) GetUserStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return domain.NewUnauthenticatedError("Authentication required")
	}

	stats, err := h.statsService.GetUserStats(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(stats))
}

// GetProfile godoc
// @Summary The caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.UserProfileResponse}
// @Security BearerAuth
// @Router /users/me [get]
func (h *StatsHandler) GetProfile(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return domain.NewUnauthenticatedError("Authentication required")
	}

	profile, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(profile))
}
