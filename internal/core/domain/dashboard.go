package domain

import "time"

// DashboardStats aggregates the analytics shown on the admin dashboard.
type DashboardStats struct {
	TotalStudents     int                `json:"totalStudents"`
	TotalCourses      int                `json:"totalCourses"`
	TotalDocuments    int                `json:"totalDocuments"`
	TotalEnrollments  int                `json:"totalEnrollments"`
	CompletedCourses  int                `json:"completedCourses"`
	OngoingCourses    int                `json:"ongoingCourses"`
	RecentStudents    []RecentStudent    `json:"recentStudents"`
	StudentsPerCourse []CourseHeadcount  `json:"studentsPerCourse"`
	TopEnrolled       []EnrollmentLeader `json:"topEnrolledStudents"`
}

// RecentStudent is a row of the most recently created students.
type RecentStudent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// CourseHeadcount counts enrolled students for one course.
type CourseHeadcount struct {
	CourseID     int64  `json:"courseId"`
	CourseName   string `json:"courseName"`
	StudentCount int    `json:"studentCount"`
}

// EnrollmentLeader is a student ranked by number of course enrollments.
type EnrollmentLeader struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	CoursesEnrolled int    `json:"coursesEnrolled"`
}

// CleanupReport carries the per-table row counts removed by a cleanup pass.
type CleanupReport struct {
	StudentOTPs          int64 `json:"studentOTPs"`
	AdminOTPs            int64 `json:"adminOTPs"`
	StudentRefreshTokens int64 `json:"studentRefreshTokens"`
	AdminRefreshTokens   int64 `json:"adminRefreshTokens"`
}
