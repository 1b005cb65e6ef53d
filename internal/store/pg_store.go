package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	peterrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/pet"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements PetStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of PetStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const petColumns = "id, name, category, available, gender, created_at"

// FindByID retrieves a pet by its unique identifier.
// Returns ErrPetNotFound if no pet exists with the given ID.
func (s *PgStore) FindByID(ctx context.Context, id string) (*pet.Pet, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, peterrors.ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to find pet by ID: %w", err)
	}
	return p, nil
}

// FindAll retrieves all pets in insertion order.
func (s *PgStore) FindAll(ctx context.Context) ([]pet.Pet, error) {
	return s.findWhere(ctx, "TRUE", nil)
}

// FindByName returns all pets whose name matches exactly.
func (s *PgStore) FindByName(ctx context.Context, name string) ([]pet.Pet, error) {
	return s.findWhere(ctx, "name = $1", []any{name})
}

// FindByCategory returns all pets whose category matches exactly.
func (s *PgStore) FindByCategory(ctx context.Context, category string) ([]pet.Pet, error) {
	return s.findWhere(ctx, "category = $1", []any{category})
}

// FindByAvailability returns all pets with the given availability.
func (s *PgStore) FindByAvailability(ctx context.Context, available bool) ([]pet.Pet, error) {
	return s.findWhere(ctx, "available = $1", []any{available})
}

// FindByGender returns all pets whose gender name matches exactly.
func (s *PgStore) FindByGender(ctx context.Context, gender string) ([]pet.Pet, error) {
	return s.findWhere(ctx, "gender = $1", []any{gender})
}

// Create adds a new pet, assigning its ID.
func (s *PgStore) Create(ctx context.Context, p pet.Pet) (*pet.Pet, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(ctx, `
		INSERT INTO pets (id, name, category, available, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.Category, p.Available, p.Gender.String(), p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return &p, nil
}

// Update replaces all fields of an existing pet, keyed by its ID.
// Returns ErrPetNotFound if no pet exists with the given ID.
func (s *PgStore) Update(ctx context.Context, p pet.Pet) (*pet.Pet, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE pets
		SET name = $2, category = $3, available = $4, gender = $5
		WHERE id = $1
		RETURNING `+petColumns+`
	`, p.ID, p.Name, p.Category, p.Available, p.Gender.String())

	updated, err := scanPet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, peterrors.ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}
	return updated, nil
}

// DeleteByID removes a pet by its ID. Unknown IDs are not an error.
func (s *PgStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete pet by ID: %w", err)
	}
	return nil
}

// DeleteAll removes every pet.
func (s *PgStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM pets`); err != nil {
		return fmt.Errorf("failed to delete all pets: %w", err)
	}
	return nil
}

// findWhere runs a filtered select, keeping insertion order stable.
func (s *PgStore) findWhere(ctx context.Context, where string, args []any) ([]pet.Pet, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE `+where+`
		ORDER BY created_at, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer rows.Close()

	list := make([]pet.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet row: %w", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pet rows: %w", err)
	}
	return list, nil
}

func scanPet(row pgx.Row) (*pet.Pet, error) {
	var p pet.Pet
	var gender string
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Available, &gender, &p.CreatedAt); err != nil {
		return nil, err
	}
	g, err := pet.ParseGender(gender)
	if err != nil {
		return nil, err
	}
	p.Gender = g
	return &p, nil
}
