package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
)

var (
	ErrPetNotFound = errors.New("pet not found")
	// ErrPetForbidden distinguishes "exists but isn't yours" from not-found.
	ErrPetForbidden  = errors.New("not allowed to access this pet")
	ErrOwnerNotFound = errors.New("owner not found")
)

type PetService struct {
	petRepo  repository.PetRepository
	userRepo repository.UserRepository
}

func NewPetService(petRepo repository.PetRepository, userRepo repository.UserRepository) *PetService {
	return &PetService{petRepo: petRepo, userRepo: userRepo}
}

type PetInput struct {
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        string     `json:"breed"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
	Color        string     `json:"color"`
	Weight       *float64   `json:"weight"`
	MedicalNotes string     `json:"medicalNotes"`
}

type CreatePetInput struct {
	PetInput
	OwnerUserID uuid.UUID `json:"ownerUserId"`
}

type UpdatePetInput struct {
	PetInput
	IsActive bool `json:"isActive"`
}

func (s *PetService) Create(ctx context.Context, input CreatePetInput) (*domain.Pet, error) {
	owner, err := s.userRepo.GetByID(ctx, input.OwnerUserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	species, ok := domain.ParseSpecies(input.Species)
	if !ok {
		return nil, &ValidationError{Title: "Validation failed", Detail: "Valid species is required."}
	}

	pet := &domain.Pet{
		ID:           uuid.New(),
		OwnerUserID:  input.OwnerUserID,
		Name:         input.Name,
		Species:      species,
		Breed:        input.Breed,
		DateOfBirth:  input.DateOfBirth,
		Color:        input.Color,
		Weight:       input.Weight,
		MedicalNotes: input.MedicalNotes,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.petRepo.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("creating pet: %w", err)
	}
	return pet, nil
}

// Get enforces the visibility rule: admins see every pet, everyone else
// only their own. A pet that does not exist is not-found for any caller.
func (s *PetService) Get(ctx context.Context, caller domain.Principal, id uuid.UUID) (*domain.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	if !caller.IsAdmin() && pet.OwnerUserID != caller.UserID {
		return nil, ErrPetForbidden
	}
	return pet, nil
}

func (s *PetService) ListAll(ctx context.Context) ([]domain.PetWithOwner, error) {
	return s.petRepo.ListAll(ctx)
}

func (s *PetService) ListByOwner(ctx context.Context, caller domain.Principal, ownerID uuid.UUID) ([]domain.Pet, error) {
	if !caller.IsAdmin() && ownerID != caller.UserID {
		return nil, ErrPetForbidden
	}
	return s.petRepo.ListByOwner(ctx, ownerID)
}

// Update is a full replace of every mutable field, not a partial patch.
func (s *PetService) Update(ctx context.Context, id uuid.UUID, input UpdatePetInput) (*domain.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}

	species, ok := domain.ParseSpecies(input.Species)
	if !ok {
		return nil, &ValidationError{Title: "Validation failed", Detail: "Valid species is required."}
	}

	now := time.Now().UTC()
	pet.Name = input.Name
	pet.Species = species
	pet.Breed = input.Breed
	pet.DateOfBirth = input.DateOfBirth
	pet.Color = input.Color
	pet.Weight = input.Weight
	pet.MedicalNotes = input.MedicalNotes
	pet.IsActive = input.IsActive
	pet.UpdatedAt = &now

	if err := s.petRepo.Update(ctx, pet); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Vanished between the read and the write.
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("updating pet: %w", err)
	}
	return pet, nil
}

func (s *PetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.petRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPetNotFound
		}
		return fmt.Errorf("deleting pet: %w", err)
	}
	return nil
}

// Assign moves a pet to a new owner; only ownerUserId and updatedAt change.
func (s *PetService) Assign(ctx context.Context, petID, newOwnerID uuid.UUID) (*domain.Pet, error) {
	owner, err := s.userRepo.GetByID(ctx, newOwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	now := time.Now().UTC()
	if err := s.petRepo.AssignOwner(ctx, petID, newOwnerID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("assigning pet: %w", err)
	}

	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	return pet, nil
}
