package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// PasswordLoginRequest is the payload for password login.
type PasswordLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPLoginRequest is the payload for OTP login.
type OTPLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// SendOTPRequest asks for a one-time code to be mailed out.
type SendOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
}

// VerifyOTPRequest is the probe-only validity check payload.
type VerifyOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	OTP     string `json:"otp" binding:"required,len=6"`
	Purpose string `json:"purpose" binding:"required"`
}

// ForgotPasswordRequest resets a password with a mailed code.
type ForgotPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePasswordRequest is the authenticated password change payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// SessionProbeResponse is returned by the session probe. LoggedIn false with
// a 200 status is the soft failure shape; a logged-in probe carries the
// public profile.
type SessionProbeResponse struct {
	LoggedIn bool            `json:"loggedIn"`
	Profile  *domain.Profile `json:"profile,omitempty"`
}

// PrincipalPayload is the admin-facing view of an admin or student row.
type PrincipalPayload struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Status      string     `json:"status,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func newPrincipalPayload(p domain.Principal) PrincipalPayload {
	return PrincipalPayload{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		LastLoginAt: p.LastLoginAt,
	}
}

func newPrincipalPayloads(principals []domain.Principal) []PrincipalPayload {
	out := make([]PrincipalPayload, 0, len(principals))
	for _, p := range principals {
		out = append(out, newPrincipalPayload(p))
	}
	return out
}

// CreatePrincipalRequest registers a new admin or student.
type CreatePrincipalRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdatePrincipalRequest edits an admin or student row.
type UpdatePrincipalRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Status string `json:"status"`
}

// CoursePayload is the API view of a course.
type CoursePayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCoursePayload(c domain.Course) CoursePayload {
	return CoursePayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateCourseRequest adds a new course.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCourseRequest edits a course.
type UpdateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
}

// EnrollmentRequest links a student to a course.
type EnrollmentRequest struct {
	StudentID int64 `json:"studentId" binding:"required"`
}

// DocumentPayload is the API view of course document metadata.
type DocumentPayload struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PublicFileID string    `json:"publicFileId"`
	CourseID     int64     `json:"courseId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newDocumentPayload(d domain.Document) DocumentPayload {
	return DocumentPayload{
		ID:           d.ID,
		Name:         d.Name,
		PublicFileID: d.PublicFileID,
		CourseID:     d.CourseID,
		CreatedAt:    d.CreatedAt,
	}
}

// AddDocumentRequest stores document metadata for a course.
type AddDocumentRequest struct {
	Name         string `json:"name" binding:"required"`
	PublicFileID string `json:"publicFileId" binding:"required"`
}

// FacultyPayload is the API view of a public faculty profile.
type FacultyPayload struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Qualifications  string    `json:"qualifications,omitempty"`
	Description     string    `json:"description,omitempty"`
	Specialities    string    `json:"specialities,omitempty"`
	ExperienceYears int       `json:"experienceYears"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newFacultyPayload(f domain.Faculty) FacultyPayload {
	return FacultyPayload{
		ID:              f.ID,
		Name:            f.Name,
		Qualifications:  f.Qualifications,
		Description:     f.Description,
		Specialities:    f.Specialities,
		ExperienceYears: f.ExperienceYears,
		ImageURL:        f.ImageURL,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// FacultyRequest creates or overwrites a faculty profile.
type FacultyRequest struct {
	Name            string `json:"name" binding:"required"`
	Qualifications  string `json:"qualifications"`
	Description     string `json:"description"`
	Specialities    string `json:"specialities"`
	ExperienceYears int    `json:"experienceYears"`
	ImageURL        string `json:"imageUrl"`
}

// ScholarSubjectPayload is one subject-and-marks entry of a scholar.
type ScholarSubjectPayload struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Marks   int    `json:"marks"`
}

// ScholarPayload is the API view of a showcased scholar. The subject list
// is only populated on single-scholar reads.
type ScholarPayload struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Degree    string                  `json:"degree"`
	ImageURL  string                  `json:"imageUrl,omitempty"`
	Subjects  []ScholarSubjectPayload `json:"subjects,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func newScholarPayload(s domain.Scholar) ScholarPayload {
	p := ScholarPayload{
		ID:        s.ID,
		Name:      s.Name,
		Degree:    s.Degree,
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, sub := range s.Subjects {
		p.Subjects = append(p.Subjects, ScholarSubjectPayload{ID: sub.ID, Subject: sub.Subject, Marks: sub.Marks})
	}
	return p
}

// ScholarSubjectRequest is one subject entry of a scholar write.
type ScholarSubjectRequest struct {
	Subject string `json:"subject" binding:"required"`
	Marks   int    `json:"marks" binding:"gte=0"`
}

// CreateScholarRequest adds a scholar with their subject marks.
type CreateScholarRequest struct {
	Name     string                  `json:"name" binding:"required"`
	Degree   string                  `json:"degree" binding:"required"`
	ImageURL string                  `json:"imageUrl" binding:"required"`
	Subjects []ScholarSubjectRequest `json:"subjects" binding:"required,min=1,dive"`
}

// UpdateScholarRequest overwrites a scholar. A present subjects array
// replaces the stored set; omitting it leaves the subjects untouched.
type UpdateScholarRequest struct {
	Name     string                  `json:"name" binding:"required"`
	Degree   string                  `json:"degree" binding:"required"`
	ImageURL string                  `json:"imageUrl"`
	Subjects []ScholarSubjectRequest `json:"subjects" binding:"omitempty,min=1,dive"`
}

// ContactRequest is the public contact-form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}
