package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// StudentHandler exposes student account management to admins.
type StudentHandler struct {
	students *usecase.StudentService
}

// NewStudentHandler builds the student management handler.
func NewStudentHandler(students *usecase.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

var studentErrorCases = []ErrorCase{
	{Err: usecase.ErrPrincipalNotFound, Status: http.StatusNotFound, Message: "student not found"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already in use"},
	{Err: usecase.ErrUnknownStatus, Status: http.StatusBadRequest, Message: "unknown student status"},
}

// List handles GET /api/students.
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}
	c.JSON(http.StatusOK, newPrincipalPayloads(students))
}

// Get handles GET /api/students/:id.
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, studentErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newPrincipalPayload(*student))
}

// Create handles POST /api/students.
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreatePrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and email are required"))
		return
	}

	student, err := h.students.Create(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		RespondWithMappedError(c, err, studentErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusCreated, newPrincipalPayload(*student))
}

// Update handles PUT /api/students/:id, including status transitions.
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and email are required"))
		return
	}

	student, err := h.students.Update(c.Request.Context(), id, req.Name, req.Email, domain.StudentStatus(req.Status))
	if err != nil {
		RespondWithMappedError(c, err, studentErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newPrincipalPayload(*student))
}

// Delete handles DELETE /api/students/:id.
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, studentErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "student deleted"})
}
