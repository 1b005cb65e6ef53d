// Package pet defines the Pet domain model.
package pet

import "time"

// Pet represents a single pet record held by the store.
// ID is assigned by the store on creation and never changes afterwards.
type Pet struct {
	ID        string
	Name      string
	Category  string
	Available bool
	Gender    Gender
	CreatedAt time.Time
}
