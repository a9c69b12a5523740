package usecases

import (
	"context"

	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

type DeleteIncidentCommand struct {
	Caller     *user.User
	IncidentID uint
}

// DeleteIncidentUseCase removes an incident. The admin may delete anything;
// a reporter may delete their own incident while it is still pending. The
// policy is evaluated against the row as loaded in the same attempt that
// deletes it, and the attempt is repeated when the row changed underneath.
type DeleteIncidentUseCase struct {
	incidentRepo incident.Repository
	txRunner     TransactionRunner
	enforcer     permission.PermissionEnforcer
	retryPolicy  RetryPolicy
	logger       logger.Interface
}

func NewDeleteIncidentUseCase(
	incidentRepo incident.Repository,
	txRunner TransactionRunner,
	enforcer permission.PermissionEnforcer,
	retryPolicy RetryPolicy,
	logger logger.Interface,
) *DeleteIncidentUseCase {
	return &DeleteIncidentUseCase{
		incidentRepo: incidentRepo,
		txRunner:     txRunner,
		enforcer:     enforcer,
		retryPolicy:  retryPolicy,
		logger:       logger,
	}
}

func (uc *DeleteIncidentUseCase) Execute(ctx context.Context, cmd DeleteIncidentCommand) error {
	if cmd.Caller == nil {
		return errors.NewNotAuthorizedError("caller identity is required")
	}

	uc.logger.Infow("executing delete incident use case", "incident_id", cmd.IncidentID, "caller", cmd.Caller.Email())

	err := retryOnConflict(ctx, uc.retryPolicy, uc.logger, "delete_incident", func(ctx context.Context) error {
		return uc.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
			return uc.attempt(ctx, cmd)
		})
	})
	if err != nil {
		return err
	}

	uc.logger.Infow("incident deleted successfully", "incident_id", cmd.IncidentID, "caller", cmd.Caller.Email())
	return nil
}

func (uc *DeleteIncidentUseCase) attempt(ctx context.Context, cmd DeleteIncidentCommand) error {
	current, err := uc.incidentRepo.FindByIDForUpdate(ctx, cmd.IncidentID)
	if err != nil {
		return mapIncidentError(uc.logger, "delete incident", cmd.IncidentID, err)
	}

	if err := uc.checkPolicy(cmd.Caller, current); err != nil {
		return err
	}

	if err := uc.incidentRepo.Delete(ctx, current); err != nil {
		return mapIncidentError(uc.logger, "delete incident", cmd.IncidentID, err)
	}
	if err := uc.incidentRepo.Flush(ctx); err != nil {
		return mapIncidentError(uc.logger, "delete incident", cmd.IncidentID, err)
	}
	return nil
}

func (uc *DeleteIncidentUseCase) checkPolicy(caller *user.User, current *incident.Incident) error {
	anyAllowed, err := can(uc.enforcer, caller, permission.ResourceIncident, permission.ActionDeleteAny)
	if err != nil {
		uc.logger.Errorw("permission check failed", "caller", caller.Email(), "error", err)
		return errors.NewInternalError("failed to check permission")
	}
	if anyAllowed {
		return nil
	}

	ownAllowed, err := can(uc.enforcer, caller, permission.ResourceIncident, permission.ActionDeleteOwn)
	if err != nil {
		uc.logger.Errorw("permission check failed", "caller", caller.Email(), "error", err)
		return errors.NewInternalError("failed to check permission")
	}
	if ownAllowed && current.IsReportedBy(caller.Email()) && current.State() == vo.StatePending {
		return nil
	}

	uc.logger.Warnw("incident deletion denied",
		"incident_id", current.ID(),
		"caller", caller.Email(),
		"state", current.State())
	return errors.NewNotAuthorizedError("only the admin, or the reporter of a pending incident, may delete it")
}

