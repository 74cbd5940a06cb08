package model

import "time"

// User is an administrator identity. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	Username     string
	APIKey       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
