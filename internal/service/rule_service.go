//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/pkg/logger"
	"chweb/pkg/sanitizer"
)

type RuleService interface {
	List(ctx context.Context) ([]model.Rule, error)
	Get(ctx context.Context, id int64) (*model.Rule, error)
	Create(ctx context.Context, rule model.Rule) (*model.Rule, error)
	// UpdateBatch validates every rule before writing any, then applies all
	// updates in one transaction. An unknown id rolls the batch back.
	UpdateBatch(ctx context.Context, rules []model.Rule) ([]model.Rule, error)
	// Delete succeeds when the rule is already gone.
	Delete(ctx context.Context, id int64) error
}

type ruleService struct {
	rules repository.RuleRepository
	tx    repository.Transactor
}

func NewRuleService(rules repository.RuleRepository, tx repository.Transactor) RuleService {
	return &ruleService{rules: rules, tx: tx}
}

func (s *ruleService) List(ctx context.Context) ([]model.Rule, error) {
	return s.rules.List(ctx)
}

func (s *ruleService) Get(ctx context.Context, id int64) (*model.Rule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrNotFound
	}
	return rule, nil
}

func (s *ruleService) Create(ctx context.Context, rule model.Rule) (*model.Rule, error) {
	rule.ID = 0
	normalized, err := normalizeRule(rule)
	if err != nil {
		return nil, err
	}
	created, err := s.rules.Create(ctx, normalized)
	if err != nil {
		return nil, err
	}
	logger.Info("rule created", "module", "service", "action", "create", "resource", "rule", "result", "ok", "rule_id", created.ID)
	return created, nil
}

func (s *ruleService) UpdateBatch(ctx context.Context, rules []model.Rule) ([]model.Rule, error) {
	if len(rules) == 0 {
		return nil, ErrInvalid
	}

	normalized := make([]model.Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.ID <= 0 {
			return nil, ErrInvalid
		}
		n, err := normalizeRule(rule)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, n)
	}

	updated := make([]model.Rule, 0, len(normalized))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, rule := range normalized {
			if err := s.rules.Update(ctx, rule); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNotFound
				}
				return err
			}
			current, err := s.rules.GetByID(ctx, rule.ID)
			if err != nil {
				return err
			}
			updated = append(updated, *current)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("rules updated", "module", "service", "action", "update", "resource", "rule", "result", "ok", "count", len(updated))
	return updated, nil
}

func (s *ruleService) Delete(ctx context.Context, id int64) error {
	if err := s.rules.Delete(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func normalizeRule(rule model.Rule) (model.Rule, error) {
	rule.Type = sanitizer.PlainText(rule.Type)
	rule.Action = sanitizer.PlainText(rule.Action)
	if rule.Type == "" || rule.Action == "" {
		return model.Rule{}, ErrInvalid
	}
	host, err := NormalizeHostPattern(rule.Host)
	if err != nil {
		return model.Rule{}, err
	}
	rule.Host = host
	return rule, nil
}

// NormalizeHostPattern lower-cases a host pattern and converts each
// label to its punycode form. Wildcard labels pass through unchanged.
func NormalizeHostPattern(pattern string) (string, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	pattern = strings.TrimSuffix(pattern, ".")
	if pattern == "" || strings.ContainsAny(pattern, " \t\r\n/<>") {
		return "", ErrInvalid
	}
	ascii, err := idna.Punycode.ToASCII(pattern)
	if err != nil {
		return "", fmt.Errorf("%w: host pattern: %v", ErrInvalid, err)
	}
	return ascii, nil
}
