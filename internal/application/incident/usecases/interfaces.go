package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/authorization"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

// TransactionRunner runs fn in a transaction carried by the context passed to it.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

func roleOf(caller *user.User) string {
	return authorization.RoleFor(caller.IsAdmin()).String()
}

// authorize fails with not_authorized when caller's role lacks the grant.
func authorize(
	enforcer permission.PermissionEnforcer,
	log logger.Interface,
	caller *user.User,
	resource permission.Resource,
	action permission.Action,
) error {
	if caller == nil {
		return errors.NewNotAuthorizedError("caller identity is required")
	}

	allowed, err := enforcer.Enforce(roleOf(caller), resource, action)
	if err != nil {
		log.Errorw("permission check failed", "caller", caller.Email(), "resource", resource, "action", action, "error", err)
		return errors.NewInternalError("failed to check permission")
	}
	if !allowed {
		log.Warnw("permission denied", "caller", caller.Email(), "resource", resource, "action", action)
		return errors.NewNotAuthorizedError(fmt.Sprintf("not allowed to %s %s", action, resource))
	}
	return nil
}

// can reports whether caller's role holds the grant, without failing.
func can(enforcer permission.PermissionEnforcer, caller *user.User, resource permission.Resource, action permission.Action) (bool, error) {
	if caller == nil {
		return false, nil
	}
	return enforcer.Enforce(roleOf(caller), resource, action)
}

// mapIncidentError translates store failures into application errors.
// Version conflicts pass through untouched for the retry loop.
func mapIncidentError(log logger.Interface, operation string, id uint, err error) error {
	switch {
	case stderrors.Is(err, incident.ErrVersionConflict):
		return err
	case stderrors.Is(err, incident.ErrIncidentNotFound):
		return errors.NewNotFoundError(fmt.Sprintf("incident %d not found", id))
	case errors.IsAppError(err), stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	default:
		log.Errorw("failed to "+operation, "incident_id", id, "error", err)
		return errors.NewInternalError("failed to " + operation)
	}
}
