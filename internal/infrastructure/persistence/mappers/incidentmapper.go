package mappers

import (
	"fmt"
	"time"

	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/infrastructure/persistence/models"
)

// IncidentMapper handles the conversion between Incident entities and persistence models.
type IncidentMapper interface {
	ToModel(i *incident.Incident) *models.IncidentModel
	ToDomain(model *models.IncidentModel) (*incident.Incident, error)
	ToDomainList(list []models.IncidentModel) ([]*incident.Incident, error)
	TypeToModel(t *incident.IncidentType) *models.IncidentTypeModel
	TypeToDomain(model *models.IncidentTypeModel) (*incident.IncidentType, error)
}

type IncidentMapperImpl struct{}

func NewIncidentMapper() IncidentMapper {
	return &IncidentMapperImpl{}
}

func (m *IncidentMapperImpl) ToModel(i *incident.Incident) *models.IncidentModel {
	return &models.IncidentModel{
		ID:            i.ID(),
		ReportedAt:    i.ReportedAt().UnixMilli(),
		TypeID:        i.TypeID(),
		TypeName:      i.TypeName(),
		Description:   i.Description(),
		Location:      i.Location(),
		Latitude:      i.Coordinates().Latitude(),
		Longitude:     i.Coordinates().Longitude(),
		Department:    i.Department(),
		State:         i.State().String(),
		ReporterEmail: i.ReporterEmail(),
		HasPhoto:      i.HasPhoto(),
		Version:       i.Version(),
	}
}

func (m *IncidentMapperImpl) ToDomain(model *models.IncidentModel) (*incident.Incident, error) {
	if model == nil {
		return nil, nil
	}

	coords, err := vo.NewCoordinate(model.Latitude, model.Longitude)
	if err != nil {
		return nil, fmt.Errorf("incident %d: %w", model.ID, err)
	}

	return incident.ReconstructIncident(
		model.ID,
		time.UnixMilli(model.ReportedAt),
		model.TypeID,
		model.TypeName,
		model.Description,
		model.Location,
		coords,
		model.Department,
		vo.State(model.State),
		model.ReporterEmail,
		model.HasPhoto,
		model.Version,
	)
}

func (m *IncidentMapperImpl) ToDomainList(list []models.IncidentModel) ([]*incident.Incident, error) {
	result := make([]*incident.Incident, 0, len(list))
	for idx := range list {
		entity, err := m.ToDomain(&list[idx])
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, nil
}

func (m *IncidentMapperImpl) TypeToModel(t *incident.IncidentType) *models.IncidentTypeModel {
	return &models.IncidentTypeModel{
		ID:   t.ID(),
		Name: t.Name(),
	}
}

func (m *IncidentMapperImpl) TypeToDomain(model *models.IncidentTypeModel) (*incident.IncidentType, error) {
	if model == nil {
		return nil, nil
	}
	return incident.ReconstructIncidentType(model.ID, model.Name)
}
