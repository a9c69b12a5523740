package incident

import (
	"fmt"
	"strings"
)

// DefaultTypeNames is the catalog a fresh installation starts with.
var DefaultTypeNames = []string{"Dirt", "Park damage", "Street furniture damage"}

// IncidentType is a category incidents are filed under. Names are unique and
// compared case-sensitively.
type IncidentType struct {
	id   uint
	name string
}

func NewIncidentType(name string) (*IncidentType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("incident type name is required")
	}
	return &IncidentType{name: name}, nil
}

func ReconstructIncidentType(id uint, name string) (*IncidentType, error) {
	if id == 0 {
		return nil, fmt.Errorf("incident type ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("incident type name is required")
	}
	return &IncidentType{id: id, name: name}, nil
}

func (t *IncidentType) ID() uint {
	return t.id
}

func (t *IncidentType) Name() string {
	return t.name
}

func (t *IncidentType) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("incident type ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("incident type ID cannot be zero")
	}
	t.id = id
	return nil
}
