package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
)

type PetRepo struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]domain.Pet
	users *UserRepo // for the owner name join in ListAll
}

func NewPetRepo(users *UserRepo) *PetRepo {
	return &PetRepo{
		byID:  make(map[uuid.UUID]domain.Pet),
		users: users,
	}
}

func (r *PetRepo) Create(ctx context.Context, pet *domain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[pet.ID] = *pet
	return nil
}

func (r *PetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PetRepo) ListAll(ctx context.Context) ([]domain.PetWithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PetWithOwner, 0, len(r.byID))
	for _, p := range r.byID {
		row := domain.PetWithOwner{Pet: p}
		if owner, _ := r.users.GetByID(ctx, p.OwnerUserID); owner != nil {
			row.OwnerFullName = owner.FullName
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PetRepo) Update(ctx context.Context, pet *domain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[pet.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[pet.ID] = *pet
	return nil
}

func (r *PetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PetRepo) AssignOwner(ctx context.Context, petID, ownerID uuid.UUID, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return repository.ErrNotFound
	}
	p.OwnerUserID = ownerID
	p.UpdatedAt = &updatedAt
	r.byID[petID] = p
	return nil
}
