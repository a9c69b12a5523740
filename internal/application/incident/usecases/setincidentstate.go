package usecases

import (
	"context"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

type SetIncidentStateCommand struct {
	Caller     *user.User
	IncidentID uint
	State      string
}

// SetIncidentStateUseCase moves an incident to any of the defined states.
// Only the admin may do so; the check happens before the store is touched.
type SetIncidentStateUseCase struct {
	incidentRepo incident.Repository
	txRunner     TransactionRunner
	enforcer     permission.PermissionEnforcer
	retryPolicy  RetryPolicy
	logger       logger.Interface
}

func NewSetIncidentStateUseCase(
	incidentRepo incident.Repository,
	txRunner TransactionRunner,
	enforcer permission.PermissionEnforcer,
	retryPolicy RetryPolicy,
	logger logger.Interface,
) *SetIncidentStateUseCase {
	return &SetIncidentStateUseCase{
		incidentRepo: incidentRepo,
		txRunner:     txRunner,
		enforcer:     enforcer,
		retryPolicy:  retryPolicy,
		logger:       logger,
	}
}

func (uc *SetIncidentStateUseCase) Execute(ctx context.Context, cmd SetIncidentStateCommand) (*dto.IncidentDTO, error) {
	if err := authorize(uc.enforcer, uc.logger, cmd.Caller, permission.ResourceIncident, permission.ActionSetState); err != nil {
		return nil, err
	}

	uc.logger.Infow("executing set incident state use case", "incident_id", cmd.IncidentID, "state", cmd.State)

	state, err := vo.ParseState(cmd.State)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var updated *incident.Incident
	err = retryOnConflict(ctx, uc.retryPolicy, uc.logger, "set_incident_state", func(ctx context.Context) error {
		return uc.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
			current, err := uc.incidentRepo.FindByIDForUpdate(ctx, cmd.IncidentID)
			if err != nil {
				return mapIncidentError(uc.logger, "update incident state", cmd.IncidentID, err)
			}

			if err := current.ChangeState(state); err != nil {
				return errors.NewValidationError(err.Error())
			}

			if err := uc.incidentRepo.Save(ctx, current); err != nil {
				return mapIncidentError(uc.logger, "update incident state", cmd.IncidentID, err)
			}
			if err := uc.incidentRepo.Flush(ctx); err != nil {
				return mapIncidentError(uc.logger, "update incident state", cmd.IncidentID, err)
			}

			updated = current
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("incident state changed successfully",
		"incident_id", cmd.IncidentID,
		"state", updated.State(),
		"version", updated.Version())

	return dto.ToIncidentDTO(updated), nil
}

