package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// Repositories groups the concrete PostgreSQL repositories for both
// principal kinds plus the shared course and dashboard stores.
type Repositories struct {
	Admins               *PrincipalRepository
	Students             *PrincipalRepository
	AdminRefreshTokens   *RefreshTokenRepository
	StudentRefreshTokens *RefreshTokenRepository
	AdminOTPs            *OTPRepository
	StudentOTPs          *OTPRepository
	Courses              *CourseRepository
	Faculties            *FacultyRepository
	Scholars             *ScholarRepository
	Dashboard            *DashboardRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Admins:               NewPrincipalRepository(pool, domain.KindAdmin),
		Students:             NewPrincipalRepository(pool, domain.KindStudent),
		AdminRefreshTokens:   NewRefreshTokenRepository(pool, domain.KindAdmin),
		StudentRefreshTokens: NewRefreshTokenRepository(pool, domain.KindStudent),
		AdminOTPs:            NewOTPRepository(pool, domain.KindAdmin),
		StudentOTPs:          NewOTPRepository(pool, domain.KindStudent),
		Courses:              NewCourseRepository(pool),
		Faculties:            NewFacultyRepository(pool),
		Scholars:             NewScholarRepository(pool),
		Dashboard:            NewDashboardRepository(pool),
	}
}
