package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// ContactHandler accepts public contact form submissions.
type ContactHandler struct {
	contact *usecase.ContactService
}

// NewContactHandler builds the contact form handler.
func NewContactHandler(contact *usecase.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name, phone, and message are required"))
		return
	}

	if err := h.contact.Submit(c.Request.Context(), req.Name, req.Phone, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to send message"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "message sent"})
}
