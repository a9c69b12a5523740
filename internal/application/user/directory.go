package user

import (
	"context"
	"strings"

	"urbanincidents/internal/domain/user"
)

var _ user.Repository = (*Directory)(nil)

// Directory is the user store as seen by the application: the configured
// administrator is always resolvable and its email can never be registered.
type Directory struct {
	repo  user.Repository
	admin *user.User
}

func NewDirectory(repo user.Repository, admin *user.User) *Directory {
	return &Directory{repo: repo, admin: admin}
}

func (d *Directory) Admin() *user.User {
	return d.admin
}

func (d *Directory) isAdminEmail(email string) bool {
	return d.admin != nil && strings.EqualFold(strings.TrimSpace(email), d.admin.Email())
}

func (d *Directory) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if d.isAdminEmail(email) {
		return d.admin, nil
	}
	return d.repo.GetByEmail(ctx, email)
}

func (d *Directory) Create(ctx context.Context, u *user.User) error {
	if d.isAdminEmail(u.Email()) {
		return user.ErrUserAlreadyExists
	}
	return d.repo.Create(ctx, u)
}
