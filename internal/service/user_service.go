//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"chweb/internal/model"
	"chweb/internal/repository"
	"chweb/pkg/logger"
	"chweb/pkg/sanitizer"
)

type UserService interface {
	// Authenticate checks credentials. Missing fields yield ErrInvalid,
	// an unknown user or wrong password ErrUnauthorized.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Create(ctx context.Context, username, password string) (*model.User, error)
	// FindByUsername normalizes username the way Create does and returns
	// ErrNotFound when no user holds it.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// ResolveAPIKey returns nil, nil when no user holds key.
	ResolveAPIKey(ctx context.Context, key string) (*model.User, error)
	RotateKey(ctx context.Context, id int64) (*model.User, error)
	SetPassword(ctx context.Context, id int64, password string) error
	// Delete removes the user. Its API key and sessions stop working at once.
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
	cost  int
}

func NewUserService(users repository.UserRepository, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{users: users, cost: bcryptCost}
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = sanitizer.PlainText(username)
	if username == "" || password == "" {
		return nil, ErrInvalid
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Info("user login rejected", "module", "service", "action", "login", "resource", "user", "result", "failed", "user_id", user.ID)
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, username, password string) (*model.User, error) {
	username = sanitizer.PlainText(username)
	if username == "" || password == "" {
		return nil, ErrInvalid
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username, newAPIKey(), hash)
	if err != nil {
		return nil, err
	}
	logger.Info("user created", "module", "service", "action", "create", "resource", "user", "result", "ok", "user_id", user.ID)
	return user, nil
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	username = sanitizer.PlainText(username)
	if username == "" {
		return nil, ErrInvalid
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) ResolveAPIKey(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, nil
	}
	return s.users.GetByAPIKey(ctx, key)
}

func (s *userService) RotateKey(ctx context.Context, id int64) (*model.User, error) {
	if err := s.users.UpdateAPIKey(ctx, id, newAPIKey()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	logger.Info("user api key rotated", "module", "service", "action", "update", "resource", "user", "result", "ok", "user_id", id)
	return user, nil
}

func (s *userService) SetPassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return ErrInvalid
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	logger.Info("user password changed", "module", "service", "action", "update", "resource", "user", "result", "ok", "user_id", id)
	return nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	logger.Info("user deleted", "module", "service", "action", "delete", "resource", "user", "result", "ok", "user_id", id)
	return nil
}

func (s *userService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInvalid
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
