package incident

import "errors"

var (
	// ErrIncidentNotFound indicates the incident does not exist
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrIncidentInProgress indicates an open incident already covers the reported location
	ErrIncidentInProgress = errors.New("an open incident already exists near this location")

	// ErrTypeNotFound indicates the incident type does not exist
	ErrTypeNotFound = errors.New("incident type not found")

	// ErrTypeAlreadyExists indicates a type with the same name is already registered
	ErrTypeAlreadyExists = errors.New("incident type already exists")

	// ErrTypeInUse indicates the type is still referenced by at least one incident
	ErrTypeInUse = errors.New("incident type is in use")

	// ErrVersionConflict indicates an optimistic locking conflict
	ErrVersionConflict = errors.New("version conflict: incident was modified")
)
