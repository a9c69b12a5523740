package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"urbanincidents/internal/application/user/dto"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/constants"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
	"urbanincidents/internal/shared/utils"
)

type RegisterUserCommand struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"notblank"`
	Surname   string `json:"surname" validate:"notblank"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Address   string `json:"address" validate:"notblank"`
	Phone     string `json:"phone" validate:"phone_es"`
	Password  string `json:"password" validate:"notblank"`
}

// RegisterUserUseCase creates a citizen account. The user store passed in is
// expected to reject the administrator's email.
type RegisterUserUseCase struct {
	userRepo       user.Repository
	passwordHasher user.PasswordHasher
	logger         logger.Interface
	now            func() time.Time
}

func NewRegisterUserUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	logger logger.Interface,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		logger:         logger,
		now:            time.Now,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, cmd RegisterUserCommand) (*dto.UserDTO, error) {
	cmd.Email = strings.TrimSpace(cmd.Email)
	uc.logger.Infow("executing register user use case", "email", cmd.Email)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid register user command", "email", cmd.Email, "error", err)
		return nil, err
	}

	birthDate, err := time.Parse(constants.DateLayout, cmd.BirthDate)
	if err != nil {
		return nil, errors.NewValidationError("birth date must use the YYYY-MM-DD format")
	}
	if birthDate.After(uc.now()) {
		return nil, errors.NewValidationError("birth date cannot be in the future")
	}

	existing, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to check email existence", "email", cmd.Email, "error", err)
		return nil, errors.NewInternalError("failed to register user")
	}
	if existing != nil {
		return nil, errors.NewAlreadyExistsError(fmt.Sprintf("user %s already exists", cmd.Email))
	}

	newUser, err := user.NewUser(
		cmd.Email,
		strings.TrimSpace(cmd.Name),
		strings.TrimSpace(cmd.Surname),
		birthDate,
		strings.TrimSpace(cmd.Address),
		cmd.Phone,
		cmd.Password,
		uc.passwordHasher,
	)
	if err != nil {
		uc.logger.Errorw("failed to create user aggregate", "email", cmd.Email, "error", err)
		return nil, errors.NewInternalError("failed to register user")
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		if stderrors.Is(err, user.ErrUserAlreadyExists) {
			return nil, errors.NewAlreadyExistsError(fmt.Sprintf("user %s already exists", cmd.Email))
		}
		uc.logger.Errorw("failed to create user in database", "email", cmd.Email, "error", err)
		return nil, errors.NewInternalError("failed to register user")
	}

	uc.logger.Infow("user registered successfully", "email", newUser.Email())

	return dto.ToUserDTO(newUser), nil
}
