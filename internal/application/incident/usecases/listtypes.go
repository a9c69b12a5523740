package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
	"urbanincidents/internal/shared/utils"
)

type ListTypesUseCase struct {
	typeRepo incident.TypeRepository
	logger   logger.Interface
}

func NewListTypesUseCase(typeRepo incident.TypeRepository, logger logger.Interface) *ListTypesUseCase {
	return &ListTypesUseCase{
		typeRepo: typeRepo,
		logger:   logger,
	}
}

func (uc *ListTypesUseCase) Execute(ctx context.Context) ([]*dto.IncidentTypeDTO, error) {
	types, err := uc.typeRepo.FindAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list incident types", "error", err)
		return nil, errors.NewInternalError("failed to list incident types")
	}
	return dto.ToIncidentTypeDTOList(types), nil
}

type GetTypeQuery struct {
	Name string
}

type GetTypeUseCase struct {
	typeRepo incident.TypeRepository
	logger   logger.Interface
}

func NewGetTypeUseCase(typeRepo incident.TypeRepository, logger logger.Interface) *GetTypeUseCase {
	return &GetTypeUseCase{
		typeRepo: typeRepo,
		logger:   logger,
	}
}

func (uc *GetTypeUseCase) Execute(ctx context.Context, query GetTypeQuery) (*dto.IncidentTypeDTO, error) {
	query.Name = utils.NormalizeName(query.Name)
	found, err := uc.typeRepo.FindByName(ctx, query.Name)
	if err != nil {
		if stderrors.Is(err, incident.ErrTypeNotFound) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("incident type %q not found", query.Name))
		}
		uc.logger.Errorw("failed to get incident type", "name", query.Name, "error", err)
		return nil, errors.NewInternalError("failed to get incident type")
	}
	return dto.ToIncidentTypeDTO(found), nil
}
