package user

import (
	"context"
	"fmt"
	"strings"

	"storemart-be/internal/logger"
	"storemart-be/internal/order"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Signup(ctx context.Context, name, email, password string) (*User, error)
	Signin(ctx context.Context, email, password string) (*User, error)
	UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	orders order.Repository
}

func NewService(repo Repository, orders order.Repository) Service {
	return &service{repo: repo, orders: orders}
}

func (s *service) Signup(ctx context.Context, name, email, password string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, User{
		Name:     name,
		Email:    email,
		Password: string(hash),
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("user registered",
		zap.Int64("user_id", u.ID),
		zap.String("email", u.Email),
	)
	return u, nil
}

func (s *service) Signin(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			// Same failure for unknown email and wrong password.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		u.Name = *params.Name
	}
	if params.Email != nil && strings.Contains(*params.Email, "@") {
		u.Email = *params.Email
	}
	if params.Password != nil && *params.Password != "" {
		if len(*params.Password) < 6 {
			return nil, fmt.Errorf("%w: password too short", ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.Password = string(hash)
	}

	return s.repo.Update(ctx, *u)
}

func (s *service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Delete removes the user and cascades to every order they own.
func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.Int64("user_id", id),
	)

	removed, err := s.orders.DeleteByUser(ctx, id)
	if err != nil {
		log.Error("failed to cascade-delete orders", zap.Error(err))
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	log.Info("user deleted", zap.Int64("orders_removed", removed))
	return nil
}
