package domain

import "time"

// CourseStatus tracks whether a course is still running.
type CourseStatus string

const (
	CourseStatusOngoing   CourseStatus = "ongoing"
	CourseStatusCompleted CourseStatus = "completed"
)

// Course is a taught course offered by the college.
type Course struct {
	ID          int64
	Name        string
	Description string
	Status      CourseStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Enrollment links a student to a course.
type Enrollment struct {
	StudentID  int64
	CourseID   int64
	EnrolledAt time.Time
}

// Document is the stored metadata of a course document; the file itself
// lives in external object storage and is referenced by its public id.
type Document struct {
	ID           int64
	Name         string
	PublicFileID string
	CourseID     int64
	CreatedAt    time.Time
}
