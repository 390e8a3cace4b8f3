package user

import (
	"context"
	"errors"

	domain "github.com/example/task-manager/domain/user"
)

// ErrDuplicateEmail is returned when the email is already stored.
var ErrDuplicateEmail = errors.New("email already exists")

// Repository is the user store consumed by the use cases.
// Lookups return nil, nil when no user matches.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}
