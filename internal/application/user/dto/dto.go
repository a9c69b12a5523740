package dto

import (
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/constants"
)

// UserDTO is the public view of an account. The password hash never leaves
// the domain.
type UserDTO struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Surname   string `json:"surname,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}

func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}

	result := &UserDTO{
		Email:   u.Email(),
		Name:    u.Name(),
		Surname: u.Surname(),
		Address: u.Address(),
		Phone:   u.Phone(),
		IsAdmin: u.IsAdmin(),
	}
	if !u.BirthDate().IsZero() {
		result.BirthDate = u.BirthDate().Format(constants.DateLayout)
	}
	return result
}
