package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// CleanupHandler triggers removal of expired OTPs and refresh tokens.
type CleanupHandler struct {
	cleanup *usecase.CleanupService
}

// NewCleanupHandler builds the cleanup handler.
func NewCleanupHandler(cleanup *usecase.CleanupService) *CleanupHandler {
	return &CleanupHandler{cleanup: cleanup}
}

// Purge handles DELETE /api/cleanup.
func (h *CleanupHandler) Purge(c *gin.Context) {
	report, err := h.cleanup.PurgeExpired(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	c.JSON(http.StatusOK, report)
}
