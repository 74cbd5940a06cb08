package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chweb/internal/model"
)

// GlobalCounterKey is the counters row holding the all-hosts aggregate.
const GlobalCounterKey = model.GlobalCounterKey

// DefaultSettings are written by Seed when absent. Values are JSON.
var DefaultSettings = map[string]string{
	"defaultAction":   `"REJECT"`,
	"enableAnalytics": `true`,
}

// SeedResult reports which rows Seed created.
type SeedResult struct {
	Settings      []string
	GlobalCounter bool
}

// Seed inserts the default settings and the global counter without
// overwriting existing rows.
func Seed(ctx context.Context, db *sql.DB) (SeedResult, error) {
	var result SeedResult
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, key := range []string{"defaultAction", "enableAnalytics"} {
		res, err := db.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO NOTHING`,
			key, DefaultSettings[key], now,
		)
		if err != nil {
			return result, fmt.Errorf("seed setting %s: %w", key, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			result.Settings = append(result.Settings, key)
		}
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO counters (host, allowed, blocked) VALUES (?, 0, 0) ON CONFLICT(host) DO NOTHING`,
		GlobalCounterKey,
	)
	if err != nil {
		return result, fmt.Errorf("seed global counter: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		result.GlobalCounter = true
	}

	return result, nil
}
