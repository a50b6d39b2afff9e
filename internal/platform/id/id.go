package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID produces random (v4) UUIDs, matching the primary keys used by the
// remote store.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Valid reports whether raw parses as a UUID.
func Valid(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
