package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/infrastructure/persistence/mappers"
	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/shared/db"
	"urbanincidents/internal/shared/logger"
)

// CachedIncidentRepository serves reads from a ReadCache and invalidates on
// writes: the written incident's ID entry plus every list namespace. When the
// write runs inside a transaction the eviction is repeated after commit, so a
// reader that repopulated the cache from pre-commit state is cleaned up.
// FindByIDForUpdate, FindOpen, FindPhoto and CountByType always go to the
// store.
type CachedIncidentRepository struct {
	inner  incident.Repository
	cache  ReadCache
	mapper mappers.IncidentMapper
	logger logger.Interface
	loads  loadGroup
}

var _ incident.Repository = (*CachedIncidentRepository)(nil)

func NewCachedIncidentRepository(inner incident.Repository, cache ReadCache, logger logger.Interface) *CachedIncidentRepository {
	return &CachedIncidentRepository{
		inner:  inner,
		cache:  cache,
		mapper: mappers.NewIncidentMapper(),
		logger: logger,
	}
}

func (r *CachedIncidentRepository) FindByID(ctx context.Context, id uint) (*incident.Incident, error) {
	key := strconv.FormatUint(uint64(id), 10)

	if data, ok := r.lookup(ctx, NamespaceIncidentByID, key); ok {
		var model models.IncidentModel
		if err := json.Unmarshal(data, &model); err == nil {
			if entity, err := r.mapper.ToDomain(&model); err == nil {
				return entity, nil
			}
		}
		r.logger.Warnw("discarding undecodable cache entry", "namespace", NamespaceIncidentByID, "key", key)
	}

	data, err := r.loads.do(ctx, NamespaceIncidentByID, key, func() ([]byte, error) {
		entity, err := r.inner.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.encode(ctx, NamespaceIncidentByID, key, r.mapper.ToModel(entity))
	})
	if err != nil {
		return nil, err
	}

	var model models.IncidentModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to decode incident %d: %w", id, err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *CachedIncidentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*incident.Incident, error) {
	return r.inner.FindByIDForUpdate(ctx, id)
}

func (r *CachedIncidentRepository) FindByReporter(ctx context.Context, email string) ([]*incident.Incident, error) {
	return r.cachedList(ctx, NamespaceIncidentByReporter, email, func() ([]*incident.Incident, error) {
		return r.inner.FindByReporter(ctx, email)
	})
}

func (r *CachedIncidentRepository) FindByType(ctx context.Context, typeID uint) ([]*incident.Incident, error) {
	key := strconv.FormatUint(uint64(typeID), 10)
	return r.cachedList(ctx, NamespaceIncidentByType, key, func() ([]*incident.Incident, error) {
		return r.inner.FindByType(ctx, typeID)
	})
}

func (r *CachedIncidentRepository) FindByState(ctx context.Context, state vo.State) ([]*incident.Incident, error) {
	return r.cachedList(ctx, NamespaceIncidentByState, state.String(), func() ([]*incident.Incident, error) {
		return r.inner.FindByState(ctx, state)
	})
}

func (r *CachedIncidentRepository) FindByTypeAndState(ctx context.Context, typeID uint, state vo.State) ([]*incident.Incident, error) {
	key := fmt.Sprintf("%d:%s", typeID, state)
	return r.cachedList(ctx, NamespaceIncidentByTypeState, key, func() ([]*incident.Incident, error) {
		return r.inner.FindByTypeAndState(ctx, typeID, state)
	})
}

func (r *CachedIncidentRepository) FindAll(ctx context.Context) ([]*incident.Incident, error) {
	return r.cachedList(ctx, NamespaceIncidentAll, allKey, func() ([]*incident.Incident, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *CachedIncidentRepository) FindOpen(ctx context.Context) ([]*incident.Incident, error) {
	return r.inner.FindOpen(ctx)
}

func (r *CachedIncidentRepository) FindPhoto(ctx context.Context, id uint) ([]byte, error) {
	return r.inner.FindPhoto(ctx, id)
}

func (r *CachedIncidentRepository) CountByType(ctx context.Context, typeID uint) (int64, error) {
	return r.inner.CountByType(ctx, typeID)
}

func (r *CachedIncidentRepository) Save(ctx context.Context, inc *incident.Incident) error {
	err := r.inner.Save(ctx, inc)
	if mutated(err) {
		r.invalidate(ctx, inc.ID())
	}
	return err
}

func (r *CachedIncidentRepository) Delete(ctx context.Context, inc *incident.Incident) error {
	err := r.inner.Delete(ctx, inc)
	if mutated(err) {
		r.invalidate(ctx, inc.ID())
	}
	return err
}

func (r *CachedIncidentRepository) Flush(ctx context.Context) error {
	return r.inner.Flush(ctx)
}

// mutated is false only for failures known to leave the store untouched.
func mutated(err error) bool {
	return !errors.Is(err, incident.ErrVersionConflict) && !errors.Is(err, incident.ErrIncidentNotFound)
}

func (r *CachedIncidentRepository) invalidate(ctx context.Context, id uint) {
	r.evictIncident(ctx, id)
	db.AfterCommit(ctx, func(ctx context.Context) {
		r.evictIncident(ctx, id)
	})
}

func (r *CachedIncidentRepository) evictIncident(ctx context.Context, id uint) {
	if id != 0 {
		if err := r.cache.Evict(ctx, NamespaceIncidentByID, strconv.FormatUint(uint64(id), 10)); err != nil {
			r.logger.Errorw("failed to evict incident from cache", "id", id, "error", err)
		}
	}
	if err := r.cache.EvictAll(ctx, IncidentListNamespaces...); err != nil {
		r.logger.Errorw("failed to evict incident lists from cache", "error", err)
	}
}

func (r *CachedIncidentRepository) cachedList(
	ctx context.Context,
	ns Namespace,
	key string,
	load func() ([]*incident.Incident, error),
) ([]*incident.Incident, error) {
	if data, ok := r.lookup(ctx, ns, key); ok {
		var list []models.IncidentModel
		if err := json.Unmarshal(data, &list); err == nil {
			if entities, err := r.mapper.ToDomainList(list); err == nil {
				return entities, nil
			}
		}
		r.logger.Warnw("discarding undecodable cache entry", "namespace", ns, "key", key)
	}

	data, err := r.loads.do(ctx, ns, key, func() ([]byte, error) {
		entities, err := load()
		if err != nil {
			return nil, err
		}
		list := make([]*models.IncidentModel, 0, len(entities))
		for _, e := range entities {
			list = append(list, r.mapper.ToModel(e))
		}
		return r.encode(ctx, ns, key, list)
	})
	if err != nil {
		return nil, err
	}

	// Every caller decodes its own copy so shared loads never hand out the
	// same aggregate twice.
	var list []models.IncidentModel
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode incident list: %w", err)
	}
	return r.mapper.ToDomainList(list)
}

// encode serializes a loaded value and stores it in the cache.
func (r *CachedIncidentRepository) encode(ctx context.Context, ns Namespace, key string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s entry: %w", ns, err)
	}
	r.store(ctx, ns, key, data)
	return data, nil
}

// lookup treats cache failures as misses.
func (r *CachedIncidentRepository) lookup(ctx context.Context, ns Namespace, key string) ([]byte, bool) {
	data, ok, err := r.cache.Get(ctx, ns, key)
	if err != nil {
		r.logger.Warnw("cache read failed, falling back to store", "namespace", ns, "key", key, "error", err)
		return nil, false
	}
	return data, ok
}

func (r *CachedIncidentRepository) store(ctx context.Context, ns Namespace, key string, data []byte) {
	if err := r.cache.Put(ctx, ns, key, data); err != nil {
		r.logger.Warnw("cache write failed", "namespace", ns, "key", key, "error", err)
	}
}
