package user

import "errors"

var (
	// ErrUserNotFound indicates no user is registered under the email
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates the email is taken, including by the administrator
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates the email/password pair did not match
	ErrInvalidCredentials = errors.New("invalid credentials")
)
