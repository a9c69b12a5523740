package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"
	"testing"

	"github.com/stretchr/testify/require"

	"urbanincidents/internal/domain/user"
)

// memUserRepository keeps users by email, like the users table.
type memUserRepository struct {
	mu    sync.Mutex
	users map[string]*user.User

	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[string]*user.User)}
}

func (r *memUserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email()]; ok {
		return user.ErrUserAlreadyExists
	}
	r.users[u.Email()] = u
	return nil
}

func (r *memUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if r.GetByEmailFunc != nil {
		return r.GetByEmailFunc(ctx, email)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[email], nil
}

// plainHasher "hashes" by prefixing, so tests can assert on stored values.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return user.ErrInvalidCredentials
	}
	return nil
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", fmt.Errorf("entropy exhausted") }
func (failingHasher) Verify(string, string) error { return user.ErrInvalidCredentials }

func validRegistration() RegisterUserCommand {
	return RegisterUserCommand{
		Email:     "ana@example.com",
		Name:      "Ana",
		Surname:   "García",
		BirthDate: "1990-05-17",
		Address:   "Calle Mayor 1, Madrid",
		Phone:     "+34612345678",
		Password:  "s3cret",
	}
}

func seedUser(t *testing.T, repo *memUserRepository, email, password string) *user.User {
	t.Helper()
	u, err := user.NewUser(email, "Luis", "Pérez", time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC),
		"Calle Alcalá 10", "698765432", password, plainHasher{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}
