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

// UserRepository persists administrator identities.
type UserRepository interface {
	Create(ctx context.Context, username, apiKey, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateAPIKey(ctx context.Context, id int64, apiKey string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, api_key, password_hash, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, username, apiKey, passwordHash string) (*model.User, error) {
	id := snowflake.NextID()
	now := time.Now().UTC()
	nowStr := formatTime(now)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO users (id, username, api_key, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, username, apiKey, passwordHash, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &model.User{
		ID:           id,
		Username:     username,
		APIKey:       apiKey,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE api_key = ?`, apiKey)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *userRepository) UpdateAPIKey(ctx context.Context, id int64, apiKey string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET api_key = ?, updated_at = ? WHERE id = ?`,
		apiKey, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update user api key: %w", err)
	}
	return rowsAffected(result)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return rowsAffected(result)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return rowsAffected(result)
}

// getOne returns nil, nil when no row matches.
func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, query, arg)

	var u model.User
	var createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.Username, &u.APIKey, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt, _ = parseTime(createdAt)
	u.UpdatedAt, _ = parseTime(updatedAt)
	return &u, nil
}
