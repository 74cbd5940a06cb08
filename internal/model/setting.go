package model

import (
	"encoding/json"
	"time"
)

// Setting is a key with a JSON-encoded value.
type Setting struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}
