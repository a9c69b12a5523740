package permission

// PermissionEnforcer decides whether a role may perform an action on a resource.
type PermissionEnforcer interface {
	Enforce(role string, resource Resource, action Action) (bool, error)
	AddPolicy(role string, resource Resource, action Action) error
	RemovePolicy(role string, resource Resource, action Action) error
}
