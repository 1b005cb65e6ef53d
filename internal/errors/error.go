// Package errors provides custom error types for pet-related operations.
package errors

import "errors"

var (
	// ErrPetNotFound is returned when no pet exists with the requested ID.
	ErrPetNotFound = errors.New("pet not found")
	// ErrPetNotAvailable is returned when a purchase is attempted on a pet
	// that has already been sold.
	ErrPetNotAvailable = errors.New("pet is not available for purchase")
)
