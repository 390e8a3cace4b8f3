package user

import (
	"context"

	"github.com/go-monolith/mono"

	"github.com/example/task-manager/domain/apperror"
	domain "github.com/example/task-manager/domain/user"
)

// Failures travel inside the response so the caller gets the error kind back.

func (m *UserModule) createUser(ctx context.Context, req CreateUserRequest, _ *mono.Msg) (UserResponse, error) {
	u, err := m.createUC.Execute(ctx, CreateUserInput{Email: req.Email})
	if err != nil {
		m.logFailure(err, "create-user")
		return UserResponse{Error: apperror.ToPayload(err)}, nil
	}
	m.log.Info().Str("user_id", u.ID).Msg("user created")
	return UserResponse{User: u}, nil
}

func (m *UserModule) findUserByEmail(ctx context.Context, req FindUserByEmailRequest, _ *mono.Msg) (UserResponse, error) {
	return m.reply(m.findUC.FindByEmail(ctx, req.Email))
}

func (m *UserModule) findUserByID(ctx context.Context, req FindUserByIDRequest, _ *mono.Msg) (UserResponse, error) {
	return m.reply(m.findUC.FindByID(ctx, req.UserID))
}

func (m *UserModule) reply(u *domain.User, err error) (UserResponse, error) {
	if err != nil {
		m.logFailure(err, "find-user")
		return UserResponse{Error: apperror.ToPayload(err)}, nil
	}
	return UserResponse{User: u}, nil
}

func (m *UserModule) logFailure(err error, service string) {
	if apperror.KindOf(err) == apperror.KindInternal {
		m.log.Error().Err(err).Str("service", service).Msg("user service failed")
	}
}
