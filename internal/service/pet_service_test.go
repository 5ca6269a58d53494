package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository/memory"
)

type petFixture struct {
	userRepo *memory.UserRepo
	petRepo  *memory.PetRepo
	users    *UserService
	pets     *PetService
}

func newPetFixture() *petFixture {
	userRepo := memory.NewUserRepo()
	petRepo := memory.NewPetRepo(userRepo)
	return &petFixture{
		userRepo: userRepo,
		petRepo:  petRepo,
		users:    NewUserService(userRepo),
		pets:     NewPetService(petRepo, userRepo),
	}
}

func (f *petFixture) owner(t *testing.T, email, name string) *domain.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), email, "Passw0rd!", name, domain.RoleOwner)
	if err != nil {
		t.Fatalf("seeding owner %s: %v", email, err)
	}
	return user
}

func (f *petFixture) pet(t *testing.T, ownerID uuid.UUID, name string) *domain.Pet {
	t.Helper()
	pet, err := f.pets.Create(context.Background(), CreatePetInput{
		PetInput:    PetInput{Name: name, Species: "dog"},
		OwnerUserID: ownerID,
	})
	if err != nil {
		t.Fatalf("seeding pet %s: %v", name, err)
	}
	return pet
}

func asPrincipal(u *domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Email: u.Email, FullName: u.FullName, Roles: u.Roles}
}

func TestCreatePet(t *testing.T) {
	f := newPetFixture()
	owner := f.owner(t, "jane@example.com", "Jane Doe")

	dob := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	weight := 12.5
	pet, err := f.pets.Create(context.Background(), CreatePetInput{
		PetInput: PetInput{
			Name:        "Milo",
			Species:     "dog",
			Breed:       "Beagle",
			DateOfBirth: &dob,
			Weight:      &weight,
		},
		OwnerUserID: owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if pet.Species != domain.SpeciesDog {
		t.Errorf("species = %q", pet.Species)
	}
	if !pet.IsActive {
		t.Error("new pets start active")
	}
	if pet.OwnerUserID != owner.ID {
		t.Errorf("ownerUserId = %v", pet.OwnerUserID)
	}
}

func TestCreatePetUnknownOwner(t *testing.T) {
	f := newPetFixture()

	_, err := f.pets.Create(context.Background(), CreatePetInput{
		PetInput:    PetInput{Name: "Milo", Species: "dog"},
		OwnerUserID: uuid.New(),
	})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("err = %v, want ErrOwnerNotFound", err)
	}
}

func TestCreatePetBadSpecies(t *testing.T) {
	f := newPetFixture()
	owner := f.owner(t, "jane@example.com", "Jane Doe")

	_, err := f.pets.Create(context.Background(), CreatePetInput{
		PetInput:    PetInput{Name: "Smaug", Species: "dragon"},
		OwnerUserID: owner.ID,
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

// Forbidden and not-found stay distinct: someone else's pet is 403, a
// missing pet is 404 for everyone.
func TestGetPetVisibility(t *testing.T) {
	f := newPetFixture()
	ctx := context.Background()

	jane := f.owner(t, "jane@example.com", "Jane Doe")
	mark := f.owner(t, "mark@example.com", "Mark Roe")
	admin, err := f.users.CreateUser(ctx, "admin@clinic.com", "Passw0rd!", "Admin", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	pet := f.pet(t, jane.ID, "Milo")

	if _, err := f.pets.Get(ctx, asPrincipal(jane), pet.ID); err != nil {
		t.Errorf("owner read: %v", err)
	}
	if _, err := f.pets.Get(ctx, asPrincipal(admin), pet.ID); err != nil {
		t.Errorf("admin read: %v", err)
	}
	if _, err := f.pets.Get(ctx, asPrincipal(mark), pet.ID); !errors.Is(err, ErrPetForbidden) {
		t.Errorf("stranger read: err = %v, want ErrPetForbidden", err)
	}
	if _, err := f.pets.Get(ctx, asPrincipal(jane), uuid.New()); !errors.Is(err, ErrPetNotFound) {
		t.Errorf("missing pet: err = %v, want ErrPetNotFound", err)
	}
}

func TestListByOwnerVisibility(t *testing.T) {
	f := newPetFixture()
	ctx := context.Background()

	jane := f.owner(t, "jane@example.com", "Jane Doe")
	mark := f.owner(t, "mark@example.com", "Mark Roe")
	f.pet(t, jane.ID, "Milo")
	f.pet(t, jane.ID, "Luna")

	pets, err := f.pets.ListByOwner(ctx, asPrincipal(jane), jane.ID)
	if err != nil {
		t.Fatalf("own list: %v", err)
	}
	if len(pets) != 2 {
		t.Errorf("len = %d, want 2", len(pets))
	}

	if _, err := f.pets.ListByOwner(ctx, asPrincipal(mark), jane.ID); !errors.Is(err, ErrPetForbidden) {
		t.Errorf("stranger list: err = %v, want ErrPetForbidden", err)
	}
}

func TestListAllJoinsOwnerName(t *testing.T) {
	f := newPetFixture()

	jane := f.owner(t, "jane@example.com", "Jane Doe")
	f.pet(t, jane.ID, "Milo")

	rows, err := f.pets.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(rows) != 1 || rows[0].OwnerFullName != "Jane Doe" {
		t.Errorf("rows = %+v", rows)
	}
}

// Update replaces every mutable field, so an omitted field clears.
func TestUpdatePetFullReplace(t *testing.T) {
	f := newPetFixture()
	ctx := context.Background()

	jane := f.owner(t, "jane@example.com", "Jane Doe")
	pet, err := f.pets.Create(ctx, CreatePetInput{
		PetInput:    PetInput{Name: "Milo", Species: "dog", Breed: "Beagle", Color: "Brown"},
		OwnerUserID: jane.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.pets.Update(ctx, pet.ID, UpdatePetInput{
		PetInput: PetInput{Name: "Milo II", Species: "dog"},
		IsActive: false,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != "Milo II" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.Breed != "" || updated.Color != "" {
		t.Errorf("breed = %q color = %q, want both cleared", updated.Breed, updated.Color)
	}
	if updated.IsActive {
		t.Error("isActive should be false")
	}
	if updated.UpdatedAt == nil {
		t.Error("expected updatedAt to be stamped")
	}
	if updated.OwnerUserID != jane.ID {
		t.Error("update must not change the owner")
	}
}

func TestUpdatePetNotFound(t *testing.T) {
	f := newPetFixture()

	_, err := f.pets.Update(context.Background(), uuid.New(), UpdatePetInput{
		PetInput: PetInput{Name: "Ghost", Species: "cat"},
	})
	if !errors.Is(err, ErrPetNotFound) {
		t.Errorf("err = %v, want ErrPetNotFound", err)
	}
}

func TestDeletePet(t *testing.T) {
	f := newPetFixture()
	ctx := context.Background()

	jane := f.owner(t, "jane@example.com", "Jane Doe")
	pet := f.pet(t, jane.ID, "Milo")

	if err := f.pets.Delete(ctx, pet.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Hard delete, so the second attempt is not found.
	if err := f.pets.Delete(ctx, pet.ID); !errors.Is(err, ErrPetNotFound) {
		t.Errorf("second delete: err = %v, want ErrPetNotFound", err)
	}
}

func TestAssignPet(t *testing.T) {
	f := newPetFixture()
	ctx := context.Background()

	jane := f.owner(t, "jane@example.com", "Jane Doe")
	mark := f.owner(t, "mark@example.com", "Mark Roe")
	pet := f.pet(t, jane.ID, "Milo")

	moved, err := f.pets.Assign(ctx, pet.ID, mark.ID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if moved.OwnerUserID != mark.ID {
		t.Errorf("ownerUserId = %v, want %v", moved.OwnerUserID, mark.ID)
	}
	if moved.Name != "Milo" || moved.Species != pet.Species {
		t.Error("assign must only change the owner")
	}
	if moved.UpdatedAt == nil {
		t.Error("expected updatedAt to be stamped")
	}

	if _, err := f.pets.Assign(ctx, pet.ID, uuid.New()); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("unknown owner: err = %v, want ErrOwnerNotFound", err)
	}
	if _, err := f.pets.Assign(ctx, uuid.New(), mark.ID); !errors.Is(err, ErrPetNotFound) {
		t.Errorf("unknown pet: err = %v, want ErrPetNotFound", err)
	}
}
