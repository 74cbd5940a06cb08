package model

import "time"

// Host is a client identity that fetches rules and reports decisions.
type Host struct {
	ID        int64
	Name      string
	APIKey    string
	Counter   Tally
	LastSeen  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
