package repository

import (
	"context"

	"github.com/weathertrack/weathertrack/internal/domain"
)

type UserRepository interface {
	// Create inserts a new user. Returns ErrEmailTaken if the email is in use.
	Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error)

	// FindByEmail returns ErrUserNotFound for unknown emails.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
}
