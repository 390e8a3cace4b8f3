package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/user"
)

// Clock returns the current time.
type Clock func() time.Time

// SystemClock returns the current UTC time truncated to milliseconds,
// the precision exposed by the API.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// CreateUserInput is the payload of CreateUser.
type CreateUserInput struct {
	Email string
}

// CreateUser registers a new account.
type CreateUser struct {
	repo Repository
	now  Clock
}

func NewCreateUser(repo Repository, now Clock) *CreateUser {
	return &CreateUser{repo: repo, now: now}
}

// Execute validates the email, rejects duplicates and stores the user.
func (uc *CreateUser) Execute(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	email := NormalizeEmail(in.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("email already in use")
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Email:     email,
		CreatedAt: uc.now(),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperror.Conflict("email already in use")
		}
		return nil, apperror.Internal("failed to create user", err)
	}
	return created, nil
}

// FindUser looks users up by email or id. Absence is not an error.
type FindUser struct {
	repo Repository
}

func NewFindUser(repo Repository) *FindUser {
	return &FindUser{repo: repo}
}

// FindByEmail returns the user with the given email, or nil.
func (uc *FindUser) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := NormalizeEmail(email)
	if err := ValidateEmail(normalized); err != nil {
		return nil, err
	}

	u, err := uc.repo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	return u, nil
}

// FindByID returns the user with the given id, or nil.
func (uc *FindUser) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.Validation("user id is required")
	}

	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	return u, nil
}
