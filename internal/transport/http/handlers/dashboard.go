package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// DashboardHandler serves the aggregated admin dashboard view.
type DashboardHandler struct {
	dashboard *usecase.DashboardService
}

// NewDashboardHandler builds the dashboard handler.
func NewDashboardHandler(dashboard *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/dashboard.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	c.JSON(http.StatusOK, stats)
}
