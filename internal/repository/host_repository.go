package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chweb/internal/model"
	"chweb/pkg/snowflake"
)

// HostRepository persists client hosts and their inline counters.
type HostRepository interface {
	Create(ctx context.Context, name, apiKey string) (*model.Host, error)
	GetByID(ctx context.Context, id int64) (*model.Host, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.Host, error)
	List(ctx context.Context) ([]model.Host, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateAPIKey(ctx context.Context, id int64, apiKey string) error
	Touch(ctx context.Context, id int64, seenAt time.Time) error
	IncrementCounter(ctx context.Context, id int64, action model.Action) error
	Delete(ctx context.Context, id int64) error
}

type hostRepository struct {
	db *sql.DB
}

func NewHostRepository(db *sql.DB) HostRepository {
	return &hostRepository{db: db}
}

const hostColumns = `id, name, api_key, allowed, blocked, last_seen, created_at, updated_at`

func (r *hostRepository) Create(ctx context.Context, name, apiKey string) (*model.Host, error) {
	id := snowflake.NextID()
	now := time.Now().UTC()
	nowStr := formatTime(now)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO hosts (id, name, api_key, allowed, blocked, created_at, updated_at)
		VALUES (?, ?, ?, 0, 0, ?, ?)
	`, id, name, apiKey, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert host: %w", err)
	}

	return &model.Host{
		ID:        id,
		Name:      name,
		APIKey:    apiKey,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *hostRepository) GetByID(ctx context.Context, id int64) (*model.Host, error) {
	return r.getOne(ctx, `SELECT `+hostColumns+` FROM hosts WHERE id = ?`, id)
}

func (r *hostRepository) GetByAPIKey(ctx context.Context, apiKey string) (*model.Host, error) {
	return r.getOne(ctx, `SELECT `+hostColumns+` FROM hosts WHERE api_key = ?`, apiKey)
}

func (r *hostRepository) List(ctx context.Context) ([]model.Host, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT `+hostColumns+` FROM hosts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query hosts: %w", err)
	}
	defer rows.Close()

	hosts := make([]model.Host, 0)
	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, *h)
	}
	return hosts, rows.Err()
}

func (r *hostRepository) UpdateName(ctx context.Context, id int64, name string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE hosts SET name = ?, updated_at = ? WHERE id = ?`,
		name, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update host name: %w", err)
	}
	return rowsAffected(result)
}

func (r *hostRepository) UpdateAPIKey(ctx context.Context, id int64, apiKey string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE hosts SET api_key = ?, updated_at = ? WHERE id = ?`,
		apiKey, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update host api key: %w", err)
	}
	return rowsAffected(result)
}

func (r *hostRepository) Touch(ctx context.Context, id int64, seenAt time.Time) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE hosts SET last_seen = ? WHERE id = ?`,
		formatTime(seenAt), id,
	)
	if err != nil {
		return fmt.Errorf("touch host: %w", err)
	}
	return rowsAffected(result)
}

// IncrementCounter adds one occurrence of action to the host's inline counter.
func (r *hostRepository) IncrementCounter(ctx context.Context, id int64, action model.Action) error {
	allowed, blocked := action.Deltas()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE hosts SET allowed = allowed + ?, blocked = blocked + ? WHERE id = ?`,
		allowed, blocked, id,
	)
	if err != nil {
		return fmt.Errorf("increment host counter: %w", err)
	}
	return rowsAffected(result)
}

func (r *hostRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM hosts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete host: %w", err)
	}
	return rowsAffected(result)
}

func (r *hostRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Host, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, query, arg)
	h, err := scanHost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return h, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHost(s scanner) (*model.Host, error) {
	var h model.Host
	var lastSeen sql.NullString
	var createdAt, updatedAt string
	if err := s.Scan(&h.ID, &h.Name, &h.APIKey, &h.Counter.Allowed, &h.Counter.Blocked, &lastSeen, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan host: %w", err)
	}
	h.LastSeen = parseNullTime(lastSeen)
	h.CreatedAt, _ = parseTime(createdAt)
	h.UpdatedAt, _ = parseTime(updatedAt)
	return &h, nil
}
