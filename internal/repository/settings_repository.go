package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chweb/internal/model"
)

// SettingsRepository stores JSON-encoded values keyed by name.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	List(ctx context.Context) ([]model.Setting, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	// UpdateExisting overwrites the value of an existing key and reports
	// whether the key was present. Missing keys are left untouched.
	UpdateExisting(ctx context.Context, key string, value json.RawMessage) (bool, error)
	Delete(ctx context.Context, key string) error
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = ?`, key)
	s, err := scanSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *settingsRepository) List(ctx context.Context) ([]model.Setting, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := make([]model.Setting, 0)
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *s)
	}
	return settings, rows.Err()
}

func (r *settingsRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func (r *settingsRepository) UpdateExisting(ctx context.Context, key string, value json.RawMessage) (bool, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE settings SET value = ?, updated_at = ? WHERE key = ?`,
		string(value), formatTime(time.Now()), key,
	)
	if err != nil {
		return false, fmt.Errorf("update setting %s: %w", key, err)
	}
	if err := rowsAffected(result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return rowsAffected(result)
}

func scanSetting(s scanner) (*model.Setting, error) {
	var setting model.Setting
	var value, updatedAt string
	if err := s.Scan(&setting.Key, &value, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan setting: %w", err)
	}
	setting.Value = json.RawMessage(value)
	setting.UpdatedAt, _ = parseTime(updatedAt)
	return &setting, nil
}
