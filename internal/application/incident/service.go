// Package incident exposes the incident lifecycle: reporting with duplicate
// detection, deletion and state changes under optimistic concurrency, and
// management of the type catalog.
package incident

import (
	"context"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/application/incident/usecases"
	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/shared/logger"
)

// ServiceDDD wires the incident use cases behind one entry point.
type ServiceDDD struct {
	createIncidentUC    *usecases.CreateIncidentUseCase
	deleteIncidentUC    *usecases.DeleteIncidentUseCase
	setStateUC          *usecases.SetIncidentStateUseCase
	getIncidentUC       *usecases.GetIncidentUseCase
	getIncidentPhotoUC  *usecases.GetIncidentPhotoUseCase
	listUserIncidentsUC *usecases.ListUserIncidentsUseCase
	searchIncidentsUC   *usecases.SearchIncidentsUseCase
	createTypeUC        *usecases.CreateTypeUseCase
	deleteTypeUC        *usecases.DeleteTypeUseCase
	listTypesUC         *usecases.ListTypesUseCase
	getTypeUC           *usecases.GetTypeUseCase
	logger              logger.Interface
}

func NewServiceDDD(
	incidentRepo incident.Repository,
	typeRepo incident.TypeRepository,
	txRunner usecases.TransactionRunner,
	enforcer permission.PermissionEnforcer,
	retryPolicy usecases.RetryPolicy,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		createIncidentUC:    usecases.NewCreateIncidentUseCase(incidentRepo, typeRepo, txRunner, enforcer, logger),
		deleteIncidentUC:    usecases.NewDeleteIncidentUseCase(incidentRepo, txRunner, enforcer, retryPolicy, logger),
		setStateUC:          usecases.NewSetIncidentStateUseCase(incidentRepo, txRunner, enforcer, retryPolicy, logger),
		getIncidentUC:       usecases.NewGetIncidentUseCase(incidentRepo, logger),
		getIncidentPhotoUC:  usecases.NewGetIncidentPhotoUseCase(incidentRepo, logger),
		listUserIncidentsUC: usecases.NewListUserIncidentsUseCase(incidentRepo, logger),
		searchIncidentsUC:   usecases.NewSearchIncidentsUseCase(incidentRepo, typeRepo, logger),
		createTypeUC:        usecases.NewCreateTypeUseCase(typeRepo, enforcer, logger),
		deleteTypeUC:        usecases.NewDeleteTypeUseCase(typeRepo, incidentRepo, txRunner, enforcer, logger),
		listTypesUC:         usecases.NewListTypesUseCase(typeRepo, logger),
		getTypeUC:           usecases.NewGetTypeUseCase(typeRepo, logger),
		logger:              logger,
	}
}

func (s *ServiceDDD) CreateIncident(ctx context.Context, cmd usecases.CreateIncidentCommand) (*dto.IncidentDTO, error) {
	return s.createIncidentUC.Execute(ctx, cmd)
}

func (s *ServiceDDD) DeleteIncident(ctx context.Context, cmd usecases.DeleteIncidentCommand) error {
	return s.deleteIncidentUC.Execute(ctx, cmd)
}

func (s *ServiceDDD) SetState(ctx context.Context, cmd usecases.SetIncidentStateCommand) (*dto.IncidentDTO, error) {
	return s.setStateUC.Execute(ctx, cmd)
}

func (s *ServiceDDD) GetIncident(ctx context.Context, id uint) (*dto.IncidentDTO, error) {
	return s.getIncidentUC.Execute(ctx, usecases.GetIncidentQuery{IncidentID: id})
}

func (s *ServiceDDD) GetIncidentPhoto(ctx context.Context, id uint) ([]byte, error) {
	return s.getIncidentPhotoUC.Execute(ctx, usecases.GetIncidentPhotoQuery{IncidentID: id})
}

func (s *ServiceDDD) ListUserIncidents(ctx context.Context, email string) ([]*dto.IncidentDTO, error) {
	return s.listUserIncidentsUC.Execute(ctx, usecases.ListUserIncidentsQuery{Email: email})
}

func (s *ServiceDDD) SearchIncidents(ctx context.Context, query usecases.SearchIncidentsQuery) ([]*dto.IncidentDTO, error) {
	return s.searchIncidentsUC.Execute(ctx, query)
}

func (s *ServiceDDD) CreateType(ctx context.Context, cmd usecases.CreateTypeCommand) (*dto.IncidentTypeDTO, error) {
	return s.createTypeUC.Execute(ctx, cmd)
}

func (s *ServiceDDD) DeleteType(ctx context.Context, cmd usecases.DeleteTypeCommand) error {
	return s.deleteTypeUC.Execute(ctx, cmd)
}

func (s *ServiceDDD) ListTypes(ctx context.Context) ([]*dto.IncidentTypeDTO, error) {
	return s.listTypesUC.Execute(ctx)
}

func (s *ServiceDDD) GetType(ctx context.Context, name string) (*dto.IncidentTypeDTO, error) {
	return s.getTypeUC.Execute(ctx, usecases.GetTypeQuery{Name: name})
}
