package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/infrastructure/persistence/mappers"
	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/shared/db"
	"urbanincidents/internal/shared/logger"
)

// CachedIncidentTypeRepository caches catalog lookups; any write drops every
// type namespace.
type CachedIncidentTypeRepository struct {
	inner  incident.TypeRepository
	cache  ReadCache
	mapper mappers.IncidentMapper
	logger logger.Interface
}

var _ incident.TypeRepository = (*CachedIncidentTypeRepository)(nil)

func NewCachedIncidentTypeRepository(inner incident.TypeRepository, cache ReadCache, logger logger.Interface) *CachedIncidentTypeRepository {
	return &CachedIncidentTypeRepository{
		inner:  inner,
		cache:  cache,
		mapper: mappers.NewIncidentMapper(),
		logger: logger,
	}
}

func (r *CachedIncidentTypeRepository) FindByID(ctx context.Context, id uint) (*incident.IncidentType, error) {
	return r.cachedOne(ctx, NamespaceTypeByID, strconv.FormatUint(uint64(id), 10), func() (*incident.IncidentType, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *CachedIncidentTypeRepository) FindByName(ctx context.Context, name string) (*incident.IncidentType, error) {
	return r.cachedOne(ctx, NamespaceTypeByName, name, func() (*incident.IncidentType, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *CachedIncidentTypeRepository) FindAll(ctx context.Context) ([]*incident.IncidentType, error) {
	data, ok, err := r.cache.Get(ctx, NamespaceTypeAll, allKey)
	if err != nil {
		r.logger.Warnw("cache read failed, falling back to store", "namespace", NamespaceTypeAll, "error", err)
	}
	if ok {
		var list []models.IncidentTypeModel
		if err := json.Unmarshal(data, &list); err == nil {
			if types, err := r.toDomainList(list); err == nil {
				return types, nil
			}
		}
	}

	types, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*models.IncidentTypeModel, 0, len(types))
	for _, t := range types {
		list = append(list, r.mapper.TypeToModel(t))
	}
	if data, err := json.Marshal(list); err == nil {
		if err := r.cache.Put(ctx, NamespaceTypeAll, allKey, data); err != nil {
			r.logger.Warnw("cache write failed", "namespace", NamespaceTypeAll, "error", err)
		}
	}
	return types, nil
}

func (r *CachedIncidentTypeRepository) Save(ctx context.Context, t *incident.IncidentType) error {
	err := r.inner.Save(ctx, t)
	if !errors.Is(err, incident.ErrTypeAlreadyExists) {
		r.invalidate(ctx)
	}
	return err
}

func (r *CachedIncidentTypeRepository) Delete(ctx context.Context, t *incident.IncidentType) error {
	err := r.inner.Delete(ctx, t)
	if !errors.Is(err, incident.ErrTypeInUse) && !errors.Is(err, incident.ErrTypeNotFound) {
		r.invalidate(ctx)
	}
	return err
}

func (r *CachedIncidentTypeRepository) invalidate(ctx context.Context) {
	evict := func(ctx context.Context) {
		if err := r.cache.EvictAll(ctx, TypeNamespaces...); err != nil {
			r.logger.Errorw("failed to evict incident types from cache", "error", err)
		}
	}
	evict(ctx)
	db.AfterCommit(ctx, evict)
}

func (r *CachedIncidentTypeRepository) cachedOne(
	ctx context.Context,
	ns Namespace,
	key string,
	load func() (*incident.IncidentType, error),
) (*incident.IncidentType, error) {
	data, ok, err := r.cache.Get(ctx, ns, key)
	if err != nil {
		r.logger.Warnw("cache read failed, falling back to store", "namespace", ns, "key", key, "error", err)
	}
	if ok {
		var model models.IncidentTypeModel
		if err := json.Unmarshal(data, &model); err == nil {
			if t, err := r.mapper.TypeToDomain(&model); err == nil {
				return t, nil
			}
		}
	}

	t, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(r.mapper.TypeToModel(t)); err == nil {
		if err := r.cache.Put(ctx, ns, key, data); err != nil {
			r.logger.Warnw("cache write failed", "namespace", ns, "key", key, "error", err)
		}
	}
	return t, nil
}

func (r *CachedIncidentTypeRepository) toDomainList(list []models.IncidentTypeModel) ([]*incident.IncidentType, error) {
	result := make([]*incident.IncidentType, 0, len(list))
	for i := range list {
		t, err := r.mapper.TypeToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}
