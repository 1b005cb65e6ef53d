// Package service provides the implementation of pet-related business logic.
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	peterrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/pet"
	"github.com/abgdnv/petstore/internal/store"
)

// PetService defines the methods for managing pets.
// It abstracts the underlying business logic and data access.
type PetService interface {
	// FindByID retrieves a single pet by its unique identifier.
	// Returns ErrPetNotFound if no pet exists with the given ID.
	FindByID(ctx context.Context, id string) (*PetDto, error)

	// FindAll returns all pets in insertion order.
	FindAll(ctx context.Context) ([]PetDto, error)

	// FindByName returns all pets whose name matches exactly.
	FindByName(ctx context.Context, name string) ([]PetDto, error)

	// FindByCategory returns all pets whose category matches exactly.
	FindByCategory(ctx context.Context, category string) ([]PetDto, error)

	// FindByAvailability returns all pets with the given availability.
	FindByAvailability(ctx context.Context, available bool) ([]PetDto, error)

	// FindByGender returns all pets whose gender name matches exactly.
	FindByGender(ctx context.Context, gender string) ([]PetDto, error)

	// Create adds a new pet to the system. The store assigns the ID.
	Create(ctx context.Context, p PetCreateDto) (*PetDto, error)

	// Update replaces all fields of an existing pet except its ID.
	// Returns ErrPetNotFound if no pet exists with the given ID.
	Update(ctx context.Context, id string, p PetCreateDto) (*PetDto, error)

	// Purchase marks a pet as no longer available.
	// Returns ErrPetNotFound if no pet exists with the given ID and
	// ErrPetNotAvailable if the pet has already been sold.
	Purchase(ctx context.Context, id string) (*PetDto, error)

	// DeleteByID removes a pet by its ID. Unknown IDs are not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll removes every pet.
	DeleteAll(ctx context.Context) error
}

// Service implements PetService and provides methods to manage pets.
type Service struct {
	repository store.PetStore
}

// NewService creates a new instance of PetService with the provided repository.
func NewService(repo store.PetStore) *Service {
	return &Service{
		repository: repo,
	}
}

// PetCreateDto represents the data transfer object for creating or replacing a pet.
// Available defaults to false and Gender to UNKNOWN when the fields are absent.
type PetCreateDto struct {
	Name      string     `json:"name"     validate:"required"`
	Category  string     `json:"category"`
	Available bool       `json:"available"`
	Gender    pet.Gender `json:"gender"`
}

// PetDto represents the data transfer object for a pet.
type PetDto struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Available bool       `json:"available"`
	Gender    pet.Gender `json:"gender"`
}

// FromForm builds a PetCreateDto from URL-encoded form fields.
// The available field is true only when the string equals "true",
// case-insensitively; an invalid gender name is rejected.
func FromForm(form url.Values) (PetCreateDto, error) {
	gender := pet.Unknown
	if name := form.Get("gender"); name != "" {
		parsed, err := pet.ParseGender(name)
		if err != nil {
			return PetCreateDto{}, err
		}
		gender = parsed
	}
	return PetCreateDto{
		Name:      form.Get("name"),
		Category:  form.Get("category"),
		Available: strings.EqualFold(form.Get("available"), "true"),
		Gender:    gender,
	}, nil
}

// FindByID retrieves a pet by its ID and returns it as a PetDto.
func (s *Service) FindByID(ctx context.Context, id string) (*PetDto, error) {
	found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pet by ID %s: %w", id, err)
	}
	return toDto(found), nil
}

// FindAll retrieves all pets and returns them as PetDtos.
func (s *Service) FindAll(ctx context.Context) ([]PetDto, error) {
	return s.toDtos(s.repository.FindAll(ctx))
}

// FindByName retrieves pets by exact name match.
func (s *Service) FindByName(ctx context.Context, name string) ([]PetDto, error) {
	return s.toDtos(s.repository.FindByName(ctx, name))
}

// FindByCategory retrieves pets by exact category match.
func (s *Service) FindByCategory(ctx context.Context, category string) ([]PetDto, error) {
	return s.toDtos(s.repository.FindByCategory(ctx, category))
}

// FindByAvailability retrieves pets by availability.
func (s *Service) FindByAvailability(ctx context.Context, available bool) ([]PetDto, error) {
	return s.toDtos(s.repository.FindByAvailability(ctx, available))
}

// FindByGender retrieves pets by exact gender name match.
func (s *Service) FindByGender(ctx context.Context, gender string) ([]PetDto, error) {
	return s.toDtos(s.repository.FindByGender(ctx, gender))
}

// Create creates a new pet and returns it as a PetDto.
func (s *Service) Create(ctx context.Context, p PetCreateDto) (*PetDto, error) {
	created, err := s.repository.Create(ctx, pet.Pet{
		Name:      p.Name,
		Category:  p.Category,
		Available: p.Available,
		Gender:    p.Gender,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return toDto(created), nil
}

// Update replaces all fields of an existing pet, preserving its ID.
func (s *Service) Update(ctx context.Context, id string, p PetCreateDto) (*PetDto, error) {
	updated, err := s.repository.Update(ctx, pet.Pet{
		ID:        id,
		Name:      p.Name,
		Category:  p.Category,
		Available: p.Available,
		Gender:    p.Gender,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update pet with ID %s: %w", id, err)
	}
	return toDto(updated), nil
}

// Purchase flips the pet's availability to false and persists it.
// The pet is left unchanged when the transition is invalid.
func (s *Service) Purchase(ctx context.Context, id string) (*PetDto, error) {
	found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pet by ID %s: %w", id, err)
	}
	if !found.Available {
		return nil, fmt.Errorf("pet with ID %s: %w", id, peterrors.ErrPetNotAvailable)
	}
	found.Available = false
	updated, err := s.repository.Update(ctx, *found)
	if err != nil {
		return nil, fmt.Errorf("failed to purchase pet with ID %s: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a pet by its ID. Unknown IDs are not an error.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	return s.repository.DeleteByID(ctx, id)
}

// DeleteAll removes every pet.
func (s *Service) DeleteAll(ctx context.Context) error {
	return s.repository.DeleteAll(ctx)
}

// toDtos converts a store result to PetDtos, passing errors through.
func (s *Service) toDtos(pets []pet.Pet, err error) ([]PetDto, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pets: %w", err)
	}
	dtos := make([]PetDto, len(pets))
	for i, item := range pets {
		dtos[i] = *toDto(&item)
	}
	return dtos, nil
}

// toDto converts a pet.Pet to a PetDto.
func toDto(p *pet.Pet) *PetDto {
	return &PetDto{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Available: p.Available,
		Gender:    p.Gender,
	}
}
