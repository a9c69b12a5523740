package user

import "context"

// Repository stores registered users. The administrator is not stored here.
type Repository interface {
	// Create inserts a new user; returns ErrUserAlreadyExists on a taken email
	Create(ctx context.Context, user *User) error

	// GetByEmail returns nil, nil when no user is registered under email
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
