package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// CourseHandler exposes course, enrollment, and document management.
type CourseHandler struct {
	courses *usecase.CourseService
}

// NewCourseHandler builds the course management handler.
func NewCourseHandler(courses *usecase.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

var courseErrorCases = []ErrorCase{
	{Err: usecase.ErrCourseNotFound, Status: http.StatusNotFound, Message: "course not found"},
	{Err: usecase.ErrAlreadyEnrolled, Status: http.StatusConflict, Message: "student already enrolled"},
	{Err: usecase.ErrNotEnrolled, Status: http.StatusNotFound, Message: "student not enrolled"},
	{Err: usecase.ErrDocumentNotFound, Status: http.StatusNotFound, Message: "document not found"},
	{Err: usecase.ErrUnknownStatus, Status: http.StatusBadRequest, Message: "unknown course status"},
}

// List handles GET /api/courses.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	payloads := make([]CoursePayload, 0, len(courses))
	for _, course := range courses {
		payloads = append(payloads, newCoursePayload(course))
	}
	c.JSON(http.StatusOK, payloads)
}

// Get handles GET /api/courses/:id.
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newCoursePayload(*course))
}

// Create handles POST /api/courses.
func (h *CourseHandler) Create(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name is required"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusCreated, newCoursePayload(*course))
}

// Update handles PUT /api/courses/:id.
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and status are required"))
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, req.Name, req.Description, domain.CourseStatus(req.Status))
	if err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newCoursePayload(*course))
}

// Delete handles DELETE /api/courses/:id.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "course deleted"})
}

// Students handles GET /api/courses/:id/students.
func (h *CourseHandler) Students(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	students, err := h.courses.Students(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	c.JSON(http.StatusOK, newPrincipalPayloads(students))
}

// Enroll handles POST /api/courses/:id/students.
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "studentId is required"))
		return
	}

	if err := h.courses.Enroll(c.Request.Context(), id, req.StudentID); err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "student enrolled"})
}

// Unenroll handles DELETE /api/courses/:id/students/:studentId.
func (h *CourseHandler) Unenroll(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	if err := h.courses.Unenroll(c.Request.Context(), courseID, studentID); err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "student unenrolled"})
}

// Documents handles GET /api/courses/:id/documents.
func (h *CourseHandler) Documents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	docs, err := h.courses.Documents(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	payloads := make([]DocumentPayload, 0, len(docs))
	for _, d := range docs {
		payloads = append(payloads, newDocumentPayload(d))
	}
	c.JSON(http.StatusOK, payloads)
}

// AddDocument handles POST /api/courses/:id/documents.
func (h *CourseHandler) AddDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and publicFileId are required"))
		return
	}

	doc, err := h.courses.AddDocument(c.Request.Context(), id, req.Name, req.PublicFileID)
	if err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusCreated, newDocumentPayload(*doc))
}

// DeleteDocument handles DELETE /api/courses/:id/documents/:documentId.
func (h *CourseHandler) DeleteDocument(c *gin.Context) {
	if _, ok := pathID(c, "id"); !ok {
		return
	}
	docID, ok := pathID(c, "documentId")
	if !ok {
		return
	}

	if err := h.courses.DeleteDocument(c.Request.Context(), docID); err != nil {
		RespondWithMappedError(c, err, courseErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "document deleted"})
}
