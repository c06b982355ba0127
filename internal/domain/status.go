package domain

// Status is the lifecycle state of an incident. The string value is the
// label the remote API stores and the board shows as the column title.
type Status string

const (
	StatusPending    Status = "Pendiente"
	StatusInProgress Status = "En curso"
	StatusResolved   Status = "Resuelto"
)

// Statuses is the fixed column order of the board.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ParseStatus accepts either the wire label ("En curso") or a short key
// ("in_progress", "inprogress", "pending", "resolved").
func ParseStatus(s string) (Status, bool) {
	switch s {
	case string(StatusPending), "pending", "pendiente":
		return StatusPending, true
	case string(StatusInProgress), "in_progress", "inprogress", "en_curso", "en curso":
		return StatusInProgress, true
	case string(StatusResolved), "resolved", "resuelto":
		return StatusResolved, true
	}
	return "", false
}

type Priority string

const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Role is the closed set of viewer roles understood by the access rules.
type Role string

const (
	RoleAdmin    Role = "administrador"
	RoleManager  Role = "gestor"
	RoleReporter Role = "reportante"
	RoleReader   Role = "lector"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleReporter, RoleReader}

type UserState string

const (
	UserActive   UserState = "activo"
	UserInactive UserState = "inactivo"
)
