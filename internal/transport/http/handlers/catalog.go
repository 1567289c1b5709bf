package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// CatalogHandler exposes the public faculty and scholar showcase.
type CatalogHandler struct {
	catalog *usecase.CatalogService
}

// NewCatalogHandler builds the showcase handler.
func NewCatalogHandler(catalog *usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

var catalogErrorCases = []ErrorCase{
	{Err: usecase.ErrFacultyNotFound, Status: http.StatusNotFound, Message: "faculty not found"},
	{Err: usecase.ErrScholarNotFound, Status: http.StatusNotFound, Message: "scholar not found"},
	{Err: usecase.ErrNoSubjects, Status: http.StatusBadRequest, Message: "at least one subject is required"},
}

// ListFaculties handles GET /api/faculties.
func (h *CatalogHandler) ListFaculties(c *gin.Context) {
	faculties, err := h.catalog.ListFaculties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	payloads := make([]FacultyPayload, 0, len(faculties))
	for _, f := range faculties {
		payloads = append(payloads, newFacultyPayload(f))
	}
	c.JSON(http.StatusOK, payloads)
}

// GetFaculty handles GET /api/faculties/:id.
func (h *CatalogHandler) GetFaculty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	faculty, err := h.catalog.GetFaculty(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newFacultyPayload(*faculty))
}

// CreateFaculty handles POST /api/faculties.
func (h *CatalogHandler) CreateFaculty(c *gin.Context) {
	var req FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name is required"))
		return
	}

	faculty, err := h.catalog.CreateFaculty(c.Request.Context(), domain.Faculty{
		Name:            req.Name,
		Qualifications:  req.Qualifications,
		Description:     req.Description,
		Specialities:    req.Specialities,
		ExperienceYears: req.ExperienceYears,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusCreated, newFacultyPayload(*faculty))
}

// UpdateFaculty handles PUT /api/faculties/:id.
func (h *CatalogHandler) UpdateFaculty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name is required"))
		return
	}

	faculty, err := h.catalog.UpdateFaculty(c.Request.Context(), domain.Faculty{
		ID:              id,
		Name:            req.Name,
		Qualifications:  req.Qualifications,
		Description:     req.Description,
		Specialities:    req.Specialities,
		ExperienceYears: req.ExperienceYears,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newFacultyPayload(*faculty))
}

// DeleteFaculty handles DELETE /api/faculties/:id.
func (h *CatalogHandler) DeleteFaculty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteFaculty(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "faculty deleted"})
}

// ListScholars handles GET /api/scholars.
func (h *CatalogHandler) ListScholars(c *gin.Context) {
	scholars, err := h.catalog.ListScholars(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	payloads := make([]ScholarPayload, 0, len(scholars))
	for _, s := range scholars {
		payloads = append(payloads, newScholarPayload(s))
	}
	c.JSON(http.StatusOK, payloads)
}

// GetScholar handles GET /api/scholars/:id.
func (h *CatalogHandler) GetScholar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	scholar, err := h.catalog.GetScholar(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newScholarPayload(*scholar))
}

// CreateScholar handles POST /api/scholars.
func (h *CatalogHandler) CreateScholar(c *gin.Context) {
	var req CreateScholarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name, degree, imageUrl, and at least one subject are required"))
		return
	}

	scholar, err := h.catalog.CreateScholar(c.Request.Context(), domain.Scholar{
		Name:     req.Name,
		Degree:   req.Degree,
		ImageURL: req.ImageURL,
		Subjects: newScholarSubjects(req.Subjects),
	})
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusCreated, newScholarPayload(*scholar))
}

// UpdateScholar handles PUT /api/scholars/:id.
func (h *CatalogHandler) UpdateScholar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateScholarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and degree are required"))
		return
	}

	scholar, err := h.catalog.UpdateScholar(c.Request.Context(), domain.Scholar{
		ID:       id,
		Name:     req.Name,
		Degree:   req.Degree,
		ImageURL: req.ImageURL,
		Subjects: newScholarSubjects(req.Subjects),
	})
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, newScholarPayload(*scholar))
}

// DeleteScholar handles DELETE /api/scholars/:id.
func (h *CatalogHandler) DeleteScholar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteScholar(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "something went wrong")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "scholar deleted"})
}

func newScholarSubjects(reqs []ScholarSubjectRequest) []domain.ScholarSubject {
	if reqs == nil {
		return nil
	}
	subjects := make([]domain.ScholarSubject, 0, len(reqs))
	for _, r := range reqs {
		subjects = append(subjects, domain.ScholarSubject{Subject: r.Subject, Marks: r.Marks})
	}
	return subjects
}
