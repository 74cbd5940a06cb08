package model

import "time"

// Rule matches a host pattern to an action.
type Rule struct {
	ID        int64
	Type      string
	Action    string
	Host      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
