package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
	"urbanincidents/internal/shared/utils"
)

type ListUserIncidentsQuery struct {
	Email string
}

type ListUserIncidentsUseCase struct {
	incidentRepo incident.Repository
	logger       logger.Interface
}

func NewListUserIncidentsUseCase(incidentRepo incident.Repository, logger logger.Interface) *ListUserIncidentsUseCase {
	return &ListUserIncidentsUseCase{
		incidentRepo: incidentRepo,
		logger:       logger,
	}
}

func (uc *ListUserIncidentsUseCase) Execute(ctx context.Context, query ListUserIncidentsQuery) ([]*dto.IncidentDTO, error) {
	email := strings.TrimSpace(query.Email)
	if email == "" {
		return nil, errors.NewValidationError("email is required")
	}

	list, err := uc.incidentRepo.FindByReporter(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to list user incidents", "email", email, "error", err)
		return nil, errors.NewInternalError("failed to list incidents")
	}
	return dto.ToIncidentDTOList(list), nil
}

// SearchIncidentsQuery filters by type name and state; empty fields match everything.
type SearchIncidentsQuery struct {
	TypeName string
	State    string
}

type SearchIncidentsUseCase struct {
	incidentRepo incident.Repository
	typeRepo     incident.TypeRepository
	logger       logger.Interface
}

func NewSearchIncidentsUseCase(
	incidentRepo incident.Repository,
	typeRepo incident.TypeRepository,
	logger logger.Interface,
) *SearchIncidentsUseCase {
	return &SearchIncidentsUseCase{
		incidentRepo: incidentRepo,
		typeRepo:     typeRepo,
		logger:       logger,
	}
}

func (uc *SearchIncidentsUseCase) Execute(ctx context.Context, query SearchIncidentsQuery) ([]*dto.IncidentDTO, error) {
	query.TypeName = utils.NormalizeName(query.TypeName)

	var (
		state    vo.State
		hasState = strings.TrimSpace(query.State) != ""
		hasType  = query.TypeName != ""
	)

	if hasState {
		parsed, err := vo.ParseState(query.State)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		state = parsed
	}

	var typeID uint
	if hasType {
		incidentType, err := uc.typeRepo.FindByName(ctx, query.TypeName)
		if err != nil {
			if stderrors.Is(err, incident.ErrTypeNotFound) {
				return []*dto.IncidentDTO{}, nil
			}
			uc.logger.Errorw("failed to get incident type", "type", query.TypeName, "error", err)
			return nil, errors.NewInternalError("failed to search incidents")
		}
		typeID = incidentType.ID()
	}

	var (
		list []*incident.Incident
		err  error
	)
	switch {
	case hasType && hasState:
		list, err = uc.incidentRepo.FindByTypeAndState(ctx, typeID, state)
	case hasType:
		list, err = uc.incidentRepo.FindByType(ctx, typeID)
	case hasState:
		list, err = uc.incidentRepo.FindByState(ctx, state)
	default:
		list, err = uc.incidentRepo.FindAll(ctx)
	}
	if err != nil {
		uc.logger.Errorw("failed to search incidents", "type", query.TypeName, "state", query.State, "error", err)
		return nil, errors.NewInternalError("failed to search incidents")
	}

	return dto.ToIncidentDTOList(list), nil
}
