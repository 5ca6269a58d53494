package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
)

var (
	// ErrNotFound is returned by mutations whose target row does not exist.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail surfaces the unique constraint on lower(email).
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserFilter narrows and pages List. Zero values mean "no filter";
// Offset/Limit are expected to be pre-clamped by the caller.
type UserFilter struct {
	Role   domain.Role
	Search string
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pet, error)
	ListAll(ctx context.Context) ([]domain.PetWithOwner, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error)
	Update(ctx context.Context, pet *domain.Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
	AssignOwner(ctx context.Context, petID, ownerID uuid.UUID, updatedAt time.Time) error
}
