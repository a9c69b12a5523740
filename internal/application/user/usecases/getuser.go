package usecases

import (
	"context"
	"fmt"
	"strings"

	"urbanincidents/internal/application/user/dto"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

type GetUserQuery struct {
	Email string
}

type GetUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetUserUseCase(userRepo user.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, query GetUserQuery) (*dto.UserDTO, error) {
	email := strings.TrimSpace(query.Email)
	if email == "" {
		return nil, errors.NewValidationError("email is required")
	}

	found, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user", "email", email, "error", err)
		return nil, errors.NewInternalError("failed to get user")
	}
	if found == nil {
		uc.logger.Warnw("user not found", "email", email)
		return nil, errors.NewNotFoundError(fmt.Sprintf("user %s not found", email))
	}

	return dto.ToUserDTO(found), nil
}
