// Package access maps viewer roles to the capabilities they hold.
//
// The table is static and closed: any role or capability it does not list
// holds nothing. Callers that decide which affordances to show and the board
// guard that rejects forbidden transitions both consult HasCapability.
package access

import (
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

// Capability is a named permission checked against a role.
type Capability int

const (
	// capabilityUnknown is the zero value and is never granted.
	capabilityUnknown Capability = iota
	ManageUsers
	ViewAllIncidents
	EditIncidents
	CreateIncidents
	ChangeIncidentStatus
	DeleteIncidents
	ViewStatistics
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{
	ManageUsers,
	ViewAllIncidents,
	EditIncidents,
	CreateIncidents,
	ChangeIncidentStatus,
	DeleteIncidents,
	ViewStatistics,
}

var capabilityNames = map[Capability]string{
	ManageUsers:          "manage_users",
	ViewAllIncidents:     "view_all_incidents",
	EditIncidents:        "edit_incidents",
	CreateIncidents:      "create_incidents",
	ChangeIncidentStatus: "change_incident_status",
	DeleteIncidents:      "delete_incidents",
	ViewStatistics:       "view_statistics",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

type capabilitySet map[Capability]bool

var table = map[domain.Role]capabilitySet{
	domain.RoleAdmin: {
		ManageUsers:          true,
		ViewAllIncidents:     true,
		EditIncidents:        true,
		CreateIncidents:      true,
		ChangeIncidentStatus: true,
		DeleteIncidents:      true,
		ViewStatistics:       true,
	},
	// Same as administrador except deleting incidents.
	domain.RoleManager: {
		ManageUsers:          true,
		ViewAllIncidents:     true,
		EditIncidents:        true,
		CreateIncidents:      true,
		ChangeIncidentStatus: true,
		ViewStatistics:       true,
	},
	// Reports incidents and sees only the ones assigned to them.
	domain.RoleReporter: {
		CreateIncidents: true,
	},
	domain.RoleReader: {},
}

// HasCapability reports whether role holds capability. Unknown roles and
// unknown capabilities return false.
func HasCapability(role domain.Role, capability Capability) bool {
	caps, ok := table[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// ParseRole maps a wire role name to a known role.
func ParseRole(s string) (domain.Role, bool) {
	r := domain.Role(s)
	if _, ok := table[r]; ok {
		return r, true
	}
	return "", false
}

// Granted returns the capabilities held by role, in display order.
func Granted(role domain.Role) []Capability {
	var out []Capability
	for _, c := range Capabilities {
		if HasCapability(role, c) {
			out = append(out, c)
		}
	}
	return out
}
