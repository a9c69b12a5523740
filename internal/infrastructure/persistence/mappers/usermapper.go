package mappers

import (
	"fmt"
	"time"

	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/shared/constants"
)

// UserMapper handles the conversion between User entities and persistence models.
type UserMapper interface {
	ToModel(u *user.User) *models.UserModel
	ToDomain(model *models.UserModel) (*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToModel(u *user.User) *models.UserModel {
	model := &models.UserModel{
		Email:        u.Email(),
		Name:         u.Name(),
		Surname:      u.Surname(),
		Address:      u.Address(),
		Phone:        u.Phone(),
		PasswordHash: u.PasswordHash(),
	}
	if !u.BirthDate().IsZero() {
		model.BirthDate = u.BirthDate().Format(constants.DateLayout)
	}
	return model
}

func (m *UserMapperImpl) ToDomain(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	var birthDate time.Time
	if model.BirthDate != "" {
		parsed, err := time.Parse(constants.DateLayout, model.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("user %s: invalid birth date: %w", model.Email, err)
		}
		birthDate = parsed
	}

	return user.ReconstructUser(
		model.Email,
		model.Name,
		model.Surname,
		birthDate,
		model.Address,
		model.Phone,
		model.PasswordHash,
	)
}
