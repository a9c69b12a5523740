package permission

import (
	"fmt"

	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/shared/authorization"
	"urbanincidents/internal/shared/logger"
)

// InitIncidentPermissions installs the default incident and catalog grants.
// Grants already present are left untouched.
func InitIncidentPermissions(enforcer permission.PermissionEnforcer, log logger.Interface) error {
	policies := permission.DefaultPolicies(authorization.RoleAdmin.String(), authorization.RoleUser.String())

	for _, policy := range policies {
		if err := enforcer.AddPolicy(policy.Role, policy.Resource, policy.Action); err != nil {
			log.Errorw("failed to add incident permission policy",
				"error", err,
				"role", policy.Role,
				"resource", policy.Resource,
				"action", policy.Action)
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy.Role, policy.Resource, policy.Action, err)
		}
	}

	log.Infow("incident permissions initialized", "policies", len(policies))
	return nil
}
