package port

import (
	"context"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// PrincipalRepository persists admin or student identity rows; the concrete
// implementation is bound to one principal kind's table.
type PrincipalRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
	GetByID(ctx context.Context, id int64) (*domain.Principal, error)
	Create(ctx context.Context, p domain.Principal) (*domain.Principal, error)
	Update(ctx context.Context, p domain.Principal) (*domain.Principal, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Principal, error)
	Count(ctx context.Context) (int, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}
