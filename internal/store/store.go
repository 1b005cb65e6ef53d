// Package store provides an interface for pet storage operations.
package store

import (
	"context"

	"github.com/abgdnv/petstore/internal/pet"
)

// PetStore is an interface for pet storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Implementations must return results in insertion order and guarantee
// read-your-writes consistency within a single request.
type PetStore interface {
	// FindByID retrieves a single pet by its unique identifier.
	// Returns ErrPetNotFound if no pet exists with the given ID.
	FindByID(ctx context.Context, id string) (*pet.Pet, error)

	// FindAll returns all pets in insertion order.
	// Returns an empty slice if no pets exist.
	FindAll(ctx context.Context) ([]pet.Pet, error)

	// FindByName returns all pets whose name matches exactly.
	FindByName(ctx context.Context, name string) ([]pet.Pet, error)

	// FindByCategory returns all pets whose category matches exactly.
	FindByCategory(ctx context.Context, category string) ([]pet.Pet, error)

	// FindByAvailability returns all pets with the given availability.
	FindByAvailability(ctx context.Context, available bool) ([]pet.Pet, error)

	// FindByGender returns all pets whose gender's symbolic name matches
	// exactly. A name outside the closed set matches nothing.
	FindByGender(ctx context.Context, gender string) ([]pet.Pet, error)

	// Create adds a new pet to the store, assigning its ID.
	Create(ctx context.Context, p pet.Pet) (*pet.Pet, error)

	// Update replaces all fields of an existing pet, keyed by its ID.
	// Returns ErrPetNotFound if no pet exists with the given ID.
	Update(ctx context.Context, p pet.Pet) (*pet.Pet, error)

	// DeleteByID removes a pet by its ID. Deleting an ID that does not
	// exist is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll removes every pet from the store.
	DeleteAll(ctx context.Context) error
}
