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

// RuleRepository persists access-control rules.
type RuleRepository interface {
	Create(ctx context.Context, rule model.Rule) (*model.Rule, error)
	GetByID(ctx context.Context, id int64) (*model.Rule, error)
	List(ctx context.Context) ([]model.Rule, error)
	Update(ctx context.Context, rule model.Rule) error
	Delete(ctx context.Context, id int64) error
}

type ruleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) RuleRepository {
	return &ruleRepository{db: db}
}

const ruleColumns = `id, type, action, host, created_at, updated_at`

func (r *ruleRepository) Create(ctx context.Context, rule model.Rule) (*model.Rule, error) {
	if rule.ID == 0 {
		rule.ID = snowflake.NextID()
	}
	now := time.Now().UTC()
	nowStr := formatTime(now)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO rules (id, type, action, host, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rule.ID, rule.Type, rule.Action, rule.Host, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert rule: %w", err)
	}

	rule.CreatedAt = now
	rule.UpdatedAt = now
	return &rule, nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id int64) (*model.Rule, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM rules WHERE id = ?`, id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rule, err
}

// List returns rules in insertion order.
func (r *ruleRepository) List(ctx context.Context) ([]model.Rule, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT `+ruleColumns+` FROM rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	rules := make([]model.Rule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// Update overwrites type, action and host; sql.ErrNoRows when the id is unknown.
func (r *ruleRepository) Update(ctx context.Context, rule model.Rule) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE rules SET type = ?, action = ?, host = ?, updated_at = ? WHERE id = ?`,
		rule.Type, rule.Action, rule.Host, formatTime(time.Now()), rule.ID,
	)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	return rowsAffected(result)
}

func (r *ruleRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return rowsAffected(result)
}

func scanRule(s scanner) (*model.Rule, error) {
	var rule model.Rule
	var createdAt, updatedAt string
	if err := s.Scan(&rule.ID, &rule.Type, &rule.Action, &rule.Host, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan rule: %w", err)
	}
	rule.CreatedAt, _ = parseTime(createdAt)
	rule.UpdatedAt, _ = parseTime(updatedAt)
	return &rule, nil
}
