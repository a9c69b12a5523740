package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
	"urbanincidents/internal/shared/utils"
)

type CreateTypeCommand struct {
	Caller *user.User
	Name   string
}

type CreateTypeUseCase struct {
	typeRepo incident.TypeRepository
	enforcer permission.PermissionEnforcer
	logger   logger.Interface
}

func NewCreateTypeUseCase(
	typeRepo incident.TypeRepository,
	enforcer permission.PermissionEnforcer,
	logger logger.Interface,
) *CreateTypeUseCase {
	return &CreateTypeUseCase{
		typeRepo: typeRepo,
		enforcer: enforcer,
		logger:   logger,
	}
}

func (uc *CreateTypeUseCase) Execute(ctx context.Context, cmd CreateTypeCommand) (*dto.IncidentTypeDTO, error) {
	if err := authorize(uc.enforcer, uc.logger, cmd.Caller, permission.ResourceIncidentType, permission.ActionCreate); err != nil {
		return nil, err
	}

	cmd.Name = utils.NormalizeName(cmd.Name)
	uc.logger.Infow("executing create incident type use case", "name", cmd.Name)

	incidentType, err := incident.NewIncidentType(cmd.Name)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	existing, err := uc.typeRepo.FindByName(ctx, cmd.Name)
	if err != nil && !stderrors.Is(err, incident.ErrTypeNotFound) {
		uc.logger.Errorw("failed to look up incident type", "name", cmd.Name, "error", err)
		return nil, errors.NewInternalError("failed to create incident type")
	}
	if existing != nil {
		return nil, errors.NewAlreadyExistsError(fmt.Sprintf("incident type %q already exists", cmd.Name))
	}

	if err := uc.typeRepo.Save(ctx, incidentType); err != nil {
		// Lost a race with another creator of the same name.
		if stderrors.Is(err, incident.ErrTypeAlreadyExists) {
			return nil, errors.NewAlreadyExistsError(fmt.Sprintf("incident type %q already exists", cmd.Name))
		}
		uc.logger.Errorw("failed to save incident type", "name", cmd.Name, "error", err)
		return nil, errors.NewInternalError("failed to create incident type")
	}

	uc.logger.Infow("incident type created successfully", "id", incidentType.ID(), "name", incidentType.Name())

	return dto.ToIncidentTypeDTO(incidentType), nil
}
