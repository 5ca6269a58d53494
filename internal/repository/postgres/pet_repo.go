package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
)

const petColumns = `id, owner_user_id, name, species, breed, date_of_birth, color, weight, medical_notes, is_active, created_at, updated_at`

type PetRepo struct {
	pool *pgxpool.Pool
}

func NewPetRepo(pool *pgxpool.Pool) *PetRepo {
	return &PetRepo{pool: pool}
}

func (r *PetRepo) Create(ctx context.Context, pet *domain.Pet) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		pet.ID, pet.OwnerUserID, pet.Name, pet.Species, nullString(pet.Breed),
		pet.DateOfBirth, nullString(pet.Color), pet.Weight, nullString(pet.MedicalNotes),
		pet.IsActive, pet.CreatedAt, pet.UpdatedAt,
	)
	return err
}

func (r *PetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pet, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	pet, err := scanPet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pet, nil
}

func (r *PetRepo) ListAll(ctx context.Context) ([]domain.PetWithOwner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.owner_user_id, p.name, p.species, p.breed, p.date_of_birth,
			p.color, p.weight, p.medical_notes, p.is_active, p.created_at, p.updated_at,
			u.full_name
		FROM pets p
		JOIN users u ON u.id = p.owner_user_id
		ORDER BY p.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pets := make([]domain.PetWithOwner, 0)
	for rows.Next() {
		var p domain.PetWithOwner
		var breed, color, notes *string
		if err := rows.Scan(
			&p.ID, &p.OwnerUserID, &p.Name, &p.Species, &breed, &p.DateOfBirth,
			&color, &p.Weight, &notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&p.OwnerFullName,
		); err != nil {
			return nil, err
		}
		p.Breed, p.Color, p.MedicalNotes = deref(breed), deref(color), deref(notes)
		pets = append(pets, p)
	}
	return pets, rows.Err()
}

func (r *PetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+petColumns+` FROM pets WHERE owner_user_id = $1 ORDER BY name ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pets := make([]domain.Pet, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, *pet)
	}
	return pets, rows.Err()
}

func (r *PetRepo) Update(ctx context.Context, pet *domain.Pet) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pets
		SET name = $2, species = $3, breed = $4, date_of_birth = $5, color = $6,
			weight = $7, medical_notes = $8, is_active = $9, updated_at = $10
		WHERE id = $1`,
		pet.ID, pet.Name, pet.Species, nullString(pet.Breed), pet.DateOfBirth,
		nullString(pet.Color), pet.Weight, nullString(pet.MedicalNotes),
		pet.IsActive, pet.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PetRepo) AssignOwner(ctx context.Context, petID, ownerID uuid.UUID, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pets SET owner_user_id = $2, updated_at = $3 WHERE id = $1`,
		petID, ownerID, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanPet(row pgx.Row) (*domain.Pet, error) {
	var p domain.Pet
	var breed, color, notes *string
	err := row.Scan(
		&p.ID, &p.OwnerUserID, &p.Name, &p.Species, &breed, &p.DateOfBirth,
		&color, &p.Weight, &notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Breed, p.Color, p.MedicalNotes = deref(breed), deref(color), deref(notes)
	return &p, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
