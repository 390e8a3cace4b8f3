package user

import (
	"context"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/user"
)

// CreateUserRequest is the request for the create-user service.
type CreateUserRequest struct {
	Email string `json:"email"`
}

// FindUserByEmailRequest is the request for the find-user-by-email service.
type FindUserByEmailRequest struct {
	Email string `json:"email"`
}

// FindUserByIDRequest is the request for the find-user-by-id service.
type FindUserByIDRequest struct {
	UserID string `json:"user_id"`
}

// UserResponse carries a user, nothing when absent, or a classified error.
type UserResponse struct {
	User  *domain.User      `json:"user,omitempty"`
	Error *apperror.Payload `json:"error,omitempty"`
}

// UserPort defines the user operations available to other modules.
// Lookups return nil, nil when the user does not exist.
type UserPort interface {
	CreateUser(ctx context.Context, email string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}
