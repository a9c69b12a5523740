package usecases

import (
	"context"
	"strings"

	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

type AuthenticateCommand struct {
	Email    string
	Password string
}

// AuthenticateUseCase resolves an email/password pair to an identity that
// can be passed to the incident service as caller.
type AuthenticateUseCase struct {
	userRepo       user.Repository
	passwordHasher user.PasswordHasher
	logger         logger.Interface
}

func NewAuthenticateUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	logger logger.Interface,
) *AuthenticateUseCase {
	return &AuthenticateUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		logger:         logger,
	}
}

func (uc *AuthenticateUseCase) Execute(ctx context.Context, cmd AuthenticateCommand) (*user.User, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, errors.NewInvalidCredentialsError()
	}

	found, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "email", email, "error", err)
		return nil, errors.NewInternalError("failed to authenticate")
	}
	if found == nil {
		uc.logger.Debugw("login attempt for unknown email", "email", email)
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := found.VerifyPassword(cmd.Password, uc.passwordHasher); err != nil {
		uc.logger.Debugw("login attempt with wrong password", "email", email)
		return nil, errors.NewInvalidCredentialsError()
	}

	uc.logger.Infow("user authenticated", "email", found.Email(), "admin", found.IsAdmin())
	return found, nil
}
