//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chweb/internal/model"
	"chweb/internal/repository"
)

// ClientConfig is what a host fetches to enforce access control.
type ClientConfig struct {
	DefaultAction string
	Rules         []model.Rule
}

type ClientService interface {
	// Config marks hostID as seen and returns the current rule set.
	Config(ctx context.Context, hostID int64) (ClientConfig, error)
}

type clientService struct {
	hosts    repository.HostRepository
	rules    repository.RuleRepository
	settings SettingsService
	now      func() time.Time
}

func NewClientService(hosts repository.HostRepository, rules repository.RuleRepository, settings SettingsService) ClientService {
	return &clientService{hosts: hosts, rules: rules, settings: settings, now: time.Now}
}

func (s *clientService) Config(ctx context.Context, hostID int64) (ClientConfig, error) {
	if err := s.hosts.Touch(ctx, hostID, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ClientConfig{}, ErrNotFound
		}
		return ClientConfig{}, err
	}

	defaultAction, err := s.settings.DefaultAction(ctx)
	if err != nil {
		return ClientConfig{}, err
	}
	rules, err := s.rules.List(ctx)
	if err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{DefaultAction: defaultAction, Rules: rules}, nil
}
