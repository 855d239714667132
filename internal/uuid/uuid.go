// Package uuid generates time-ordered identifiers for database primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. UUIDv7 is time-ordered, which keeps
// b-tree primary key indexes append-mostly under insert load.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// crypto/rand failure; fall back to a random v4
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
