package incident

import (
	"context"

	vo "urbanincidents/internal/domain/incident/valueobjects"
)

// Repository is the authoritative store for incidents. Save and Delete use
// compare-and-swap on the version carried by the argument and return
// ErrVersionConflict when another writer got there first. List results are
// ordered by ID and never carry the photo payload.
type Repository interface {
	FindByID(ctx context.Context, id uint) (*Incident, error)
	// FindByIDForUpdate loads the freshest row and takes a row lock when
	// running inside a transaction on engines that support it.
	FindByIDForUpdate(ctx context.Context, id uint) (*Incident, error)
	FindByReporter(ctx context.Context, email string) ([]*Incident, error)
	FindByType(ctx context.Context, typeID uint) ([]*Incident, error)
	FindByState(ctx context.Context, state vo.State) ([]*Incident, error)
	FindByTypeAndState(ctx context.Context, typeID uint, state vo.State) ([]*Incident, error)
	FindAll(ctx context.Context) ([]*Incident, error)
	// FindOpen lists pending and under-review incidents. It always reads the
	// store; it backs the duplicate-proximity check of incident creation.
	FindOpen(ctx context.Context) ([]*Incident, error)
	FindPhoto(ctx context.Context, id uint) ([]byte, error)
	// CountByType always reads the store; it backs the in-use check of type deletion.
	CountByType(ctx context.Context, typeID uint) (int64, error)
	Save(ctx context.Context, incident *Incident) error
	Delete(ctx context.Context, incident *Incident) error
	// Flush surfaces deferred write failures synchronously.
	Flush(ctx context.Context) error
}

// TypeRepository is the catalog of incident types.
type TypeRepository interface {
	FindByID(ctx context.Context, id uint) (*IncidentType, error)
	FindByName(ctx context.Context, name string) (*IncidentType, error)
	FindAll(ctx context.Context) ([]*IncidentType, error)
	Save(ctx context.Context, incidentType *IncidentType) error
	Delete(ctx context.Context, incidentType *IncidentType) error
}
