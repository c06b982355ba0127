package domain

import "time"

// Incident is a reported issue tracked through the board's statuses.
// Field names on the wire follow the remote API.
type Incident struct {
	ID          int64     `json:"id"`
	Status      Status    `json:"estado"`
	Priority    Priority  `json:"prioridad"`
	AssigneeID  *int64    `json:"responsable_id"`
	Area        string    `json:"area"`
	Module      string    `json:"modulo"`
	Description string    `json:"descripcion"`
	PhotoURL    string    `json:"url_foto,omitempty"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
}

// AssignedTo reports whether the incident's assignee is userID.
func (i Incident) AssignedTo(userID int64) bool {
	return i.AssigneeID != nil && *i.AssigneeID == userID
}

// Summary returns the description cut to n runes, with an ellipsis when cut.
func (i Incident) Summary(n int) string {
	r := []rune(i.Description)
	if len(r) <= n {
		return i.Description
	}
	return string(r[:n]) + "..."
}
