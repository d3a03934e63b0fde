package netsync

// Role is a console's part in a networked match.
type Role int

const (
	RoleHost Role = iota
	RoleClient
)

// RoleFromDevice maps the persisted device id to a role: console 0 hosts,
// any other console joins.
func RoleFromDevice(id uint8) Role {
	if id == 0 {
		return RoleHost
	}
	return RoleClient
}

// String returns a human-readable name for the role.
func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}
