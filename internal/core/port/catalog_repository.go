package port

import (
	"context"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// FacultyRepository persists public faculty profiles.
type FacultyRepository interface {
	Create(ctx context.Context, f domain.Faculty) (*domain.Faculty, error)
	GetByID(ctx context.Context, id int64) (*domain.Faculty, error)
	List(ctx context.Context) ([]domain.Faculty, error)
	Update(ctx context.Context, f domain.Faculty) (*domain.Faculty, error)
	Delete(ctx context.Context, id int64) error
}

// ScholarRepository persists showcased scholars and their subject marks.
// Create and Update write the scholar row and its subjects in a single
// transaction; a non-nil Subjects slice on Update replaces the stored set.
type ScholarRepository interface {
	Create(ctx context.Context, s domain.Scholar) (*domain.Scholar, error)
	GetByID(ctx context.Context, id int64) (*domain.Scholar, error)
	List(ctx context.Context) ([]domain.Scholar, error)
	Update(ctx context.Context, s domain.Scholar) (*domain.Scholar, error)
	Delete(ctx context.Context, id int64) error
}
