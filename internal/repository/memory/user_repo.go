package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
)

// UserRepo is an in-memory repository.UserRepository. It mirrors the
// Postgres repo's semantics, including the unique email constraint and the
// fullName/email ordering, so transport tests run without a database.
type UserRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.byID[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, u := range r.byID {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	updated := cloneUser(*user)
	updated.PasswordHash = user.PasswordHash
	if updated.PasswordHash == "" {
		updated.PasswordHash = existing.PasswordHash
	}
	r.byID[user.ID] = updated
	return nil
}

func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.User, 0)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, u := range r.byID {
		if filter.Role != "" && !hasRoleFold(u, string(filter.Role)) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.FullName), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FullName != matched[j].FullName {
			return matched[i].FullName < matched[j].FullName
		}
		return matched[i].Email < matched[j].Email
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, u := range r.byID {
		if hasRoleFold(u, string(role)) {
			count++
		}
	}
	return count, nil
}

func hasRoleFold(u domain.User, role string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(string(r), role) {
			return true
		}
	}
	return false
}

func cloneUser(u domain.User) domain.User {
	roles := make([]domain.Role, len(u.Roles))
	copy(roles, u.Roles)
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	u.Roles = roles
	return u
}
