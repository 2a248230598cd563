package handlers

import (
	"sahaayak-api/internal/core/services"
	"sahaayak-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler handles public statistics endpoints
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Overview returns programme-wide aggregate statistics
// @Summary Get programme statistics
// @Description Aggregate application counts, amounts and trends (public)
// @Tags Statistics
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /stats [get]
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.statsService.GetOverview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", overview)
}
