//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/pkg/logger"
)

// TopLimit bounds the most-blocked and most-allowed lists.
const TopLimit = 5

// HostTally is a host's inline counter as reported by Summary.
type HostTally struct {
	Name string
	model.Tally
}

type AnalyticsSummary struct {
	Global      model.Tally
	MostBlocked []model.Counter
	MostAllowed []model.Counter
	Hosts       []HostTally
}

type AnalyticsService interface {
	// Record counts one decision reported by hostID for domain against the
	// global aggregate, the domain and the host. The three writes commit
	// together or not at all. Nothing is written while analytics are
	// disabled in settings.
	Record(ctx context.Context, hostID int64, domain string, action model.Action) error
	Summary(ctx context.Context) (AnalyticsSummary, error)
}

type analyticsService struct {
	counters repository.CounterRepository
	hosts    repository.HostRepository
	settings SettingsService
	tx       repository.Transactor
}

func NewAnalyticsService(counters repository.CounterRepository, hosts repository.HostRepository, settings SettingsService, tx repository.Transactor) AnalyticsService {
	return &analyticsService{counters: counters, hosts: hosts, settings: settings, tx: tx}
}

func (s *analyticsService) Record(ctx context.Context, hostID int64, domain string, action model.Action) error {
	domain = strings.TrimSpace(domain)
	if domain == "" || domain == model.GlobalCounterKey || !action.Valid() {
		return ErrInvalid
	}

	enabled, err := s.settings.AnalyticsEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		logger.Debug("analytics disabled", "module", "service", "action", "record", "resource", "counter", "result", "skipped", "host_id", hostID)
		return nil
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.counters.Increment(ctx, model.GlobalCounterKey, action); err != nil {
			return err
		}
		if err := s.counters.Increment(ctx, domain, action); err != nil {
			return err
		}
		if err := s.hosts.IncrementCounter(ctx, hostID, action); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
}

func (s *analyticsService) Summary(ctx context.Context) (AnalyticsSummary, error) {
	var summary AnalyticsSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		global, err := s.counters.Get(gctx, model.GlobalCounterKey)
		summary.Global = global.Tally
		return err
	})
	g.Go(func() error {
		top, err := s.counters.Top(gctx, model.ActionBlocked, TopLimit)
		summary.MostBlocked = top
		return err
	})
	g.Go(func() error {
		top, err := s.counters.Top(gctx, model.ActionAllowed, TopLimit)
		summary.MostAllowed = top
		return err
	})
	g.Go(func() error {
		hosts, err := s.hosts.List(gctx)
		if err != nil {
			return err
		}
		summary.Hosts = make([]HostTally, 0, len(hosts))
		for _, h := range hosts {
			summary.Hosts = append(summary.Hosts, HostTally{Name: h.Name, Tally: h.Counter})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return AnalyticsSummary{}, err
	}
	return summary, nil
}
