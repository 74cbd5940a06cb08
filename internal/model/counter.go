package model

// Action is an access-control outcome reported by a host.
type Action string

const (
	ActionAllowed Action = "allowed"
	ActionBlocked Action = "blocked"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return a == ActionAllowed || a == ActionBlocked
}

// Deltas returns the (allowed, blocked) increments for one occurrence of a.
func (a Action) Deltas() (int64, int64) {
	switch a {
	case ActionAllowed:
		return 1, 0
	case ActionBlocked:
		return 0, 1
	default:
		return 0, 0
	}
}

// GlobalCounterKey identifies the all-hosts aggregate counter.
const GlobalCounterKey = "<all>"

// Tally is a pair of allow/block totals.
type Tally struct {
	Allowed int64
	Blocked int64
}

// Counter is a tally keyed by host string.
type Counter struct {
	Host string
	Tally
}
