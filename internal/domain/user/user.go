package user

import (
	"fmt"
	"strings"
	"time"
)

// User is a registered citizen or the administrator. The email is the identity.
type User struct {
	email        string
	name         string
	surname      string
	birthDate    time.Time
	address      string
	phone        string
	passwordHash string
	admin        bool
}

// NewUser creates a citizen account. The password is hashed with hasher.
func NewUser(
	email string,
	name string,
	surname string,
	birthDate time.Time,
	address string,
	phone string,
	password string,
	hasher PasswordHasher,
) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		email:        email,
		name:         name,
		surname:      surname,
		birthDate:    birthDate,
		address:      address,
		phone:        phone,
		passwordHash: hash,
	}, nil
}

// NewAdmin builds the administrator identity from configured credentials.
// The administrator is never persisted through the registration path.
func NewAdmin(email string, passwordHash string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("admin email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	return &User{
		email:        email,
		name:         "admin",
		passwordHash: passwordHash,
		admin:        true,
	}, nil
}

func ReconstructUser(
	email string,
	name string,
	surname string,
	birthDate time.Time,
	address string,
	phone string,
	passwordHash string,
) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	return &User{
		email:        email,
		name:         name,
		surname:      surname,
		birthDate:    birthDate,
		address:      address,
		phone:        phone,
		passwordHash: passwordHash,
	}, nil
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Surname() string {
	return u.surname
}

func (u *User) BirthDate() time.Time {
	return u.birthDate
}

func (u *User) Address() string {
	return u.address
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) IsAdmin() bool {
	return u.admin
}

// VerifyPassword returns ErrInvalidCredentials on mismatch.
func (u *User) VerifyPassword(plainPassword string, hasher PasswordHasher) error {
	if u.passwordHash == "" {
		return ErrInvalidCredentials
	}
	if err := hasher.Verify(plainPassword, u.passwordHash); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
