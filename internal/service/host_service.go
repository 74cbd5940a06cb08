//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/pkg/logger"
	"chweb/pkg/sanitizer"
)

type HostService interface {
	List(ctx context.Context) ([]model.Host, error)
	Create(ctx context.Context, name string) (*model.Host, error)
	Rename(ctx context.Context, id int64, name string) (*model.Host, error)
	// Delete succeeds when the host is already gone.
	Delete(ctx context.Context, id int64) error
	RotateKey(ctx context.Context, id int64) (*model.Host, error)
	// ResolveAPIKey returns nil, nil when no host holds key.
	ResolveAPIKey(ctx context.Context, key string) (*model.Host, error)
}

type hostService struct {
	hosts repository.HostRepository
}

func NewHostService(hosts repository.HostRepository) HostService {
	return &hostService{hosts: hosts}
}

func (s *hostService) List(ctx context.Context) ([]model.Host, error) {
	return s.hosts.List(ctx)
}

func (s *hostService) Create(ctx context.Context, name string) (*model.Host, error) {
	name = sanitizer.PlainText(name)
	if name == "" {
		return nil, ErrInvalid
	}
	host, err := s.hosts.Create(ctx, name, newAPIKey())
	if err != nil {
		return nil, err
	}
	logger.Info("host created", "module", "service", "action", "create", "resource", "host", "result", "ok", "host_id", host.ID)
	return host, nil
}

func (s *hostService) Rename(ctx context.Context, id int64, name string) (*model.Host, error) {
	name = sanitizer.PlainText(name)
	if id <= 0 || name == "" {
		return nil, ErrInvalid
	}
	if err := s.hosts.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *hostService) Delete(ctx context.Context, id int64) error {
	if err := s.hosts.Delete(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *hostService) RotateKey(ctx context.Context, id int64) (*model.Host, error) {
	if err := s.hosts.UpdateAPIKey(ctx, id, newAPIKey()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	logger.Info("host api key rotated", "module", "service", "action", "update", "resource", "host", "result", "ok", "host_id", id)
	return s.get(ctx, id)
}

func (s *hostService) ResolveAPIKey(ctx context.Context, key string) (*model.Host, error) {
	if key == "" {
		return nil, nil
	}
	return s.hosts.GetByAPIKey(ctx, key)
}

func (s *hostService) get(ctx context.Context, id int64) (*model.Host, error) {
	host, err := s.hosts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrNotFound
	}
	return host, nil
}
