package service

import (
	"strconv"

	"github.com/google/uuid"
)

// newAPIKey returns a random opaque token for users and hosts.
func newAPIKey() string {
	return uuid.NewString()
}

// ParseID parses an opaque decimal record id. Zero, negative or malformed
// values yield ErrInvalid.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalid
	}
	return id, nil
}
