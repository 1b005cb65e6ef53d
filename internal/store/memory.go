package store

import (
	"context"
	"sync"
	"time"

	peterrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/pet"
	"github.com/google/uuid"
)

// memory implements PetStore using an in-memory map.
// An ordered slice of IDs preserves insertion order for list results.
type memory struct {
	mu    sync.RWMutex
	pets  map[string]pet.Pet
	order []string
}

// NewMemoryStore creates a new in-memory instance of PetStore.
func NewMemoryStore() PetStore {
	return &memory{
		pets: make(map[string]pet.Pet),
	}
}

// FindByID retrieves a pet by its ID.
func (s *memory) FindByID(_ context.Context, id string) (*pet.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pets[id]
	if !ok {
		return nil, peterrors.ErrPetNotFound
	}
	return &p, nil
}

// FindAll retrieves all pets in insertion order.
func (s *memory) FindAll(_ context.Context) ([]pet.Pet, error) {
	return s.filter(func(pet.Pet) bool { return true }), nil
}

func (s *memory) FindByName(_ context.Context, name string) ([]pet.Pet, error) {
	return s.filter(func(p pet.Pet) bool { return p.Name == name }), nil
}

func (s *memory) FindByCategory(_ context.Context, category string) ([]pet.Pet, error) {
	return s.filter(func(p pet.Pet) bool { return p.Category == category }), nil
}

func (s *memory) FindByAvailability(_ context.Context, available bool) ([]pet.Pet, error) {
	return s.filter(func(p pet.Pet) bool { return p.Available == available }), nil
}

func (s *memory) FindByGender(_ context.Context, gender string) ([]pet.Pet, error) {
	return s.filter(func(p pet.Pet) bool { return p.Gender.String() == gender }), nil
}

// Create assigns a new ID and stores the pet.
func (s *memory) Create(_ context.Context, p pet.Pet) (*pet.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	s.pets[p.ID] = p
	s.order = append(s.order, p.ID)

	return &p, nil
}

// Update replaces all fields of an existing pet, preserving its ID and
// position in insertion order.
func (s *memory) Update(_ context.Context, p pet.Pet) (*pet.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pets[p.ID]
	if !ok {
		return nil, peterrors.ErrPetNotFound
	}
	p.CreatedAt = existing.CreatedAt
	s.pets[p.ID] = p
	return &p, nil
}

// DeleteByID deletes a pet by its ID. Unknown IDs are ignored.
func (s *memory) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pets[id]; !exists {
		return nil
	}
	delete(s.pets, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAll removes every pet from the store.
func (s *memory) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pets = make(map[string]pet.Pet)
	s.order = nil
	return nil
}

// filter returns all pets matching the predicate, in insertion order.
func (s *memory) filter(match func(pet.Pet) bool) []pet.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]pet.Pet, 0, len(s.order))
	for _, id := range s.order {
		if p := s.pets[id]; match(p) {
			list = append(list, p)
		}
	}
	return list
}
