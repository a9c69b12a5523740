package dto

import (
	"time"

	"urbanincidents/internal/domain/incident"
)

type IncidentDTO struct {
	ID          uint      `json:"id"`
	ReportedAt  time.Time `json:"reported_at"`
	TypeID      uint      `json:"type_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Latitude    float32   `json:"latitude"`
	Longitude   float32   `json:"longitude"`
	Department  string    `json:"department"`
	State       string    `json:"state"`
	Reporter    string    `json:"reporter"`
	HasPhoto    bool      `json:"has_photo"`
	Version     int       `json:"version"`
}

type IncidentTypeDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func ToIncidentDTO(i *incident.Incident) *IncidentDTO {
	if i == nil {
		return nil
	}

	return &IncidentDTO{
		ID:          i.ID(),
		ReportedAt:  i.ReportedAt(),
		TypeID:      i.TypeID(),
		Type:        i.TypeName(),
		Description: i.Description(),
		Location:    i.Location(),
		Latitude:    i.Coordinates().Latitude(),
		Longitude:   i.Coordinates().Longitude(),
		Department:  i.Department(),
		State:       i.State().String(),
		Reporter:    i.ReporterEmail(),
		HasPhoto:    i.HasPhoto(),
		Version:     i.Version(),
	}
}

func ToIncidentDTOList(list []*incident.Incident) []*IncidentDTO {
	result := make([]*IncidentDTO, 0, len(list))
	for _, i := range list {
		result = append(result, ToIncidentDTO(i))
	}
	return result
}

func ToIncidentTypeDTO(t *incident.IncidentType) *IncidentTypeDTO {
	if t == nil {
		return nil
	}
	return &IncidentTypeDTO{ID: t.ID(), Name: t.Name()}
}

func ToIncidentTypeDTOList(list []*incident.IncidentType) []*IncidentTypeDTO {
	result := make([]*IncidentTypeDTO, 0, len(list))
	for _, t := range list {
		result = append(result, ToIncidentTypeDTO(t))
	}
	return result
}
