package cache

import (
	"context"
	"encoding/json"

	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/infrastructure/persistence/mappers"
	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/shared/logger"
)

// CachedUserRepository caches users by email. Misses are not cached so a
// registration is visible immediately.
type CachedUserRepository struct {
	inner  user.Repository
	cache  ReadCache
	mapper mappers.UserMapper
	logger logger.Interface
}

var _ user.Repository = (*CachedUserRepository)(nil)

func NewCachedUserRepository(inner user.Repository, cache ReadCache, logger logger.Interface) *CachedUserRepository {
	return &CachedUserRepository{
		inner:  inner,
		cache:  cache,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *CachedUserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.inner.Create(ctx, u)
	if evictErr := r.cache.Evict(ctx, NamespaceUserByEmail, u.Email()); evictErr != nil {
		r.logger.Errorw("failed to evict user from cache", "email", u.Email(), "error", evictErr)
	}
	return err
}

func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	data, ok, err := r.cache.Get(ctx, NamespaceUserByEmail, email)
	if err != nil {
		r.logger.Warnw("cache read failed, falling back to store", "namespace", NamespaceUserByEmail, "error", err)
	}
	if ok {
		var model models.UserModel
		if err := json.Unmarshal(data, &model); err == nil {
			if u, err := r.mapper.ToDomain(&model); err == nil {
				return u, nil
			}
		}
	}

	u, err := r.inner.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return u, err
	}

	if data, err := json.Marshal(r.mapper.ToModel(u)); err == nil {
		if err := r.cache.Put(ctx, NamespaceUserByEmail, email, data); err != nil {
			r.logger.Warnw("cache write failed", "namespace", NamespaceUserByEmail, "error", err)
		}
	}
	return u, nil
}
