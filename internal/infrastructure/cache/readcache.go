package cache

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/singleflight"

	"urbanincidents/internal/shared/db"
)

// Namespace groups cached query results that are invalidated together.
type Namespace string

const (
	NamespaceIncidentByID        Namespace = "incident:id"
	NamespaceIncidentByReporter  Namespace = "incident:reporter"
	NamespaceIncidentByType      Namespace = "incident:type"
	NamespaceIncidentByState     Namespace = "incident:state"
	NamespaceIncidentByTypeState Namespace = "incident:type_state"
	NamespaceIncidentAll         Namespace = "incident:all"

	NamespaceTypeByID   Namespace = "type:id"
	NamespaceTypeByName Namespace = "type:name"
	NamespaceTypeAll    Namespace = "type:all"

	NamespaceUserByEmail Namespace = "user:email"
)

// IncidentListNamespaces are dropped wholesale on every incident write.
var IncidentListNamespaces = []Namespace{
	NamespaceIncidentByReporter,
	NamespaceIncidentByType,
	NamespaceIncidentByState,
	NamespaceIncidentByTypeState,
	NamespaceIncidentAll,
}

// TypeNamespaces are dropped wholesale on every type write.
var TypeNamespaces = []Namespace{
	NamespaceTypeByID,
	NamespaceTypeByName,
	NamespaceTypeAll,
}

// ReadCache memoizes serialized query results by namespace and key.
// Get reports a miss with found == false and a nil error.
type ReadCache interface {
	Get(ctx context.Context, ns Namespace, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, ns Namespace, key string, value []byte) error
	Evict(ctx context.Context, ns Namespace, key string) error
	EvictAll(ctx context.Context, namespaces ...Namespace) error
}

const (
	DefaultTTL = 10 * time.Minute
	allKey     = "all"
)

// ttlWithJitter spreads expirations over [ttl, ttl*1.25) to avoid stampedes.
func ttlWithJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	jitter := ttl / 4
	if jitter <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int64N(int64(jitter)))
}

// loadGroup collapses concurrent misses on the same entry into one store
// load. Loads running inside a transaction are never shared since they may
// see uncommitted rows.
type loadGroup struct {
	group singleflight.Group
}

func (g *loadGroup) do(ctx context.Context, ns Namespace, key string, load func() ([]byte, error)) ([]byte, error) {
	if db.InTransaction(ctx) {
		return load()
	}
	v, err, _ := g.group.Do(string(ns)+"|"+key, func() (any, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
