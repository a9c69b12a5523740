package permission

type Resource string

type Action string

const (
	ResourceIncident     Resource = "incident"
	ResourceIncidentType Resource = "incident_type"
)

const (
	ActionCreate    Action = "create"
	ActionDelete    Action = "delete"
	ActionDeleteOwn Action = "delete_own"
	ActionDeleteAny Action = "delete_any"
	ActionSetState  Action = "set_state"
)

func (r Resource) String() string {
	return string(r)
}

func (a Action) String() string {
	return string(a)
}

// Policy is a single role/resource/action grant.
type Policy struct {
	Role     string
	Resource Resource
	Action   Action
}

// DefaultPolicies are the grants installed on first start.
func DefaultPolicies(adminRole, userRole string) []Policy {
	return []Policy{
		{Role: adminRole, Resource: ResourceIncident, Action: ActionCreate},
		{Role: adminRole, Resource: ResourceIncident, Action: ActionDeleteAny},
		{Role: adminRole, Resource: ResourceIncident, Action: ActionDeleteOwn},
		{Role: adminRole, Resource: ResourceIncident, Action: ActionSetState},
		{Role: adminRole, Resource: ResourceIncidentType, Action: ActionCreate},
		{Role: adminRole, Resource: ResourceIncidentType, Action: ActionDelete},
		{Role: userRole, Resource: ResourceIncident, Action: ActionCreate},
		{Role: userRole, Resource: ResourceIncident, Action: ActionDeleteOwn},
	}
}
