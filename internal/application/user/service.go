// Package user manages citizen accounts and resolves callers, including the
// configured administrator, to identities.
package user

import (
	"context"

	"urbanincidents/internal/application/user/dto"
	"urbanincidents/internal/application/user/usecases"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/logger"
)

type ServiceDDD struct {
	directory      *Directory
	registerUC     *usecases.RegisterUserUseCase
	authenticateUC *usecases.AuthenticateUseCase
	getUserUC      *usecases.GetUserUseCase
	logger         logger.Interface
}

// NewServiceDDD wraps userRepo in a Directory that knows admin.
func NewServiceDDD(
	userRepo user.Repository,
	admin *user.User,
	hasher user.PasswordHasher,
	logger logger.Interface,
) *ServiceDDD {
	directory := NewDirectory(userRepo, admin)
	return &ServiceDDD{
		directory:      directory,
		registerUC:     usecases.NewRegisterUserUseCase(directory, hasher, logger),
		authenticateUC: usecases.NewAuthenticateUseCase(directory, hasher, logger),
		getUserUC:      usecases.NewGetUserUseCase(directory, logger),
		logger:         logger,
	}
}

func (s *ServiceDDD) RegisterUser(ctx context.Context, cmd usecases.RegisterUserCommand) (*dto.UserDTO, error) {
	return s.registerUC.Execute(ctx, cmd)
}

func (s *ServiceDDD) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	return s.authenticateUC.Execute(ctx, usecases.AuthenticateCommand{Email: email, Password: password})
}

func (s *ServiceDDD) GetUser(ctx context.Context, email string) (*dto.UserDTO, error) {
	return s.getUserUC.Execute(ctx, usecases.GetUserQuery{Email: email})
}

func (s *ServiceDDD) Admin() *user.User {
	return s.directory.Admin()
}
