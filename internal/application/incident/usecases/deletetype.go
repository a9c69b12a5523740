package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
	"urbanincidents/internal/shared/utils"
)

type DeleteTypeCommand struct {
	Caller *user.User
	Name   string
}

// DeleteTypeUseCase removes a catalog entry that no incident references.
type DeleteTypeUseCase struct {
	typeRepo     incident.TypeRepository
	incidentRepo incident.Repository
	txRunner     TransactionRunner
	enforcer     permission.PermissionEnforcer
	logger       logger.Interface
}

func NewDeleteTypeUseCase(
	typeRepo incident.TypeRepository,
	incidentRepo incident.Repository,
	txRunner TransactionRunner,
	enforcer permission.PermissionEnforcer,
	logger logger.Interface,
) *DeleteTypeUseCase {
	return &DeleteTypeUseCase{
		typeRepo:     typeRepo,
		incidentRepo: incidentRepo,
		txRunner:     txRunner,
		enforcer:     enforcer,
		logger:       logger,
	}
}

func (uc *DeleteTypeUseCase) Execute(ctx context.Context, cmd DeleteTypeCommand) error {
	if err := authorize(uc.enforcer, uc.logger, cmd.Caller, permission.ResourceIncidentType, permission.ActionDelete); err != nil {
		return err
	}

	cmd.Name = utils.NormalizeName(cmd.Name)
	uc.logger.Infow("executing delete incident type use case", "name", cmd.Name)

	err := uc.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		incidentType, err := uc.typeRepo.FindByName(ctx, cmd.Name)
		if err != nil {
			return uc.mapError(cmd.Name, err)
		}

		refs, err := uc.incidentRepo.CountByType(ctx, incidentType.ID())
		if err != nil {
			uc.logger.Errorw("failed to count incidents of type", "name", cmd.Name, "error", err)
			return errors.NewInternalError("failed to delete incident type")
		}
		if refs > 0 {
			return errors.NewInUseError(fmt.Sprintf("incident type %q is used by %d incidents", cmd.Name, refs))
		}

		// The foreign key still catches an incident filed after the count.
		if err := uc.typeRepo.Delete(ctx, incidentType); err != nil {
			return uc.mapError(cmd.Name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Infow("incident type deleted successfully", "name", cmd.Name)
	return nil
}

func (uc *DeleteTypeUseCase) mapError(name string, err error) error {
	switch {
	case stderrors.Is(err, incident.ErrTypeNotFound):
		return errors.NewNotFoundError(fmt.Sprintf("incident type %q not found", name))
	case stderrors.Is(err, incident.ErrTypeInUse):
		return errors.NewInUseError(fmt.Sprintf("incident type %q is in use", name))
	default:
		uc.logger.Errorw("failed to delete incident type", "name", name, "error", err)
		return errors.NewInternalError("failed to delete incident type")
	}
}
