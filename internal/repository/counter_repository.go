package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chweb/internal/model"
)

// CounterRepository maintains allow/block tallies keyed by host string.
type CounterRepository interface {
	// Increment adds one occurrence of action to key, creating the row when absent.
	Increment(ctx context.Context, key string, action model.Action) error
	// Get returns the tally for key; a missing row yields zeros.
	Get(ctx context.Context, key string) (model.Counter, error)
	// Top returns up to limit rows ordered by the action's field descending,
	// ties broken by host ascending. The global row is excluded.
	Top(ctx context.Context, action model.Action, limit int) ([]model.Counter, error)
}

type counterRepository struct {
	db *sql.DB
}

func NewCounterRepository(db *sql.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Increment(ctx context.Context, key string, action model.Action) error {
	if !action.Valid() {
		return fmt.Errorf("increment counter %s: unknown action %q", key, action)
	}
	allowed, blocked := action.Deltas()
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO counters (host, allowed, blocked) VALUES (?, ?, ?)
		ON CONFLICT(host) DO UPDATE SET
			allowed = allowed + excluded.allowed,
			blocked = blocked + excluded.blocked
	`, key, allowed, blocked)
	if err != nil {
		return fmt.Errorf("increment counter %s: %w", key, err)
	}
	return nil
}

func (r *counterRepository) Get(ctx context.Context, key string) (model.Counter, error) {
	c := model.Counter{Host: key}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT allowed, blocked FROM counters WHERE host = ?`, key,
	).Scan(&c.Allowed, &c.Blocked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("get counter %s: %w", key, err)
	}
	return c, nil
}

func (r *counterRepository) Top(ctx context.Context, action model.Action, limit int) ([]model.Counter, error) {
	var query string
	switch action {
	case model.ActionAllowed:
		query = `SELECT host, allowed, blocked FROM counters WHERE host <> ? ORDER BY allowed DESC, host ASC LIMIT ?`
	case model.ActionBlocked:
		query = `SELECT host, allowed, blocked FROM counters WHERE host <> ? ORDER BY blocked DESC, host ASC LIMIT ?`
	default:
		return nil, fmt.Errorf("top counters: unknown action %q", action)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, model.GlobalCounterKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query top counters: %w", err)
	}
	defer rows.Close()

	counters := make([]model.Counter, 0, limit)
	for rows.Next() {
		var c model.Counter
		if err := rows.Scan(&c.Host, &c.Allowed, &c.Blocked); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counters = append(counters, c)
	}
	return counters, rows.Err()
}
