package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// AdminHandler exposes admin account management, itself admin-only.
type AdminHandler struct {
	admins *usecase.AdminService
}

// NewAdminHandler builds the admin management handler.
func NewAdminHandler(admins *usecase.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

var adminErrorCases = []ErrorCase{
	{Err: usecase.ErrPrincipalNotFound, Status: http.StatusNotFound, Message: "admin not found"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already in use"},
	{Err: usecase.ErrLastAdmin, Status: http.StatusBadRequest, Message: "cannot delete the last admin"},
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid id"))
		return 0, false
	}
	return id, true
}

// List handles GET /api/admins.
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}
	c.JSON(http.StatusOK, newPrincipalPayloads(admins))
}

// Create handles POST /api/admins.
func (h *AdminHandler) Create(c *gin.Context) {
	var req CreatePrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and email are required"))
		return
	}

	admin, err := h.admins.Create(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		RespondWithMappedError(c, err, adminErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusCreated, newPrincipalPayload(*admin))
}

// Update handles PUT /api/admins/:id.
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and email are required"))
		return
	}

	admin, err := h.admins.Update(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		RespondWithMappedError(c, err, adminErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newPrincipalPayload(*admin))
}

// Delete handles DELETE /api/admins/:id. Deleting the sole remaining admin
// is refused.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.admins.Delete(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, adminErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "admin deleted"})
}
