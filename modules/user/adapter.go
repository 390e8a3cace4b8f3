package user

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/user"
)

// userAdapter wraps ServiceContainer for type-safe cross-module communication.
type userAdapter struct {
	container mono.ServiceContainer
	timeout   time.Duration
}

// NewUserAdapter creates a UserPort over the user module's container.
// Each call is bounded by timeout.
func NewUserAdapter(container mono.ServiceContainer, timeout time.Duration) UserPort {
	if container == nil {
		panic("user adapter requires non-nil ServiceContainer")
	}
	return &userAdapter{container: container, timeout: timeout}
}

func (a *userAdapter) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	return a.call(ctx, "create-user", &CreateUserRequest{Email: email})
}

func (a *userAdapter) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return a.call(ctx, "find-user-by-email", &FindUserByEmailRequest{Email: email})
}

func (a *userAdapter) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return a.call(ctx, "find-user-by-id", &FindUserByIDRequest{UserID: userID})
}

func (a *userAdapter) call(ctx context.Context, service string, req any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var resp UserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, apperror.Internal(service+" service call failed", err)
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.User, nil
}
