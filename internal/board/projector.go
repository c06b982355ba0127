package board

import "github.com/alexanderramin/incidentboard/internal/domain"

// Partition groups incidents by status. Every incident with a recognized
// status appears in exactly one column, exactly once; others are left out.
type Partition struct {
	columns map[domain.Status][]domain.Incident
}

// Project derives the board columns from a store snapshot. Column order is
// domain.Statuses and each column keeps the snapshot's order.
func Project(incidents []domain.Incident) Partition {
	p := Partition{columns: make(map[domain.Status][]domain.Incident, len(domain.Statuses))}
	for _, s := range domain.Statuses {
		p.columns[s] = nil
	}
	for _, inc := range incidents {
		if _, ok := p.columns[inc.Status]; !ok {
			continue
		}
		p.columns[inc.Status] = append(p.columns[inc.Status], inc)
	}
	return p
}

// Column returns the incidents under status, in board order.
func (p Partition) Column(status domain.Status) []domain.Incident {
	return p.columns[status]
}

// Statuses returns the column order.
func (p Partition) Statuses() []domain.Status {
	return domain.Statuses
}

// Len returns the number of incidents placed on the board.
func (p Partition) Len() int {
	n := 0
	for _, col := range p.columns {
		n += len(col)
	}
	return n
}

// Locate returns the column and index of an incident, or false when it is
// not on the board.
func (p Partition) Locate(id int64) (domain.Status, int, bool) {
	for _, s := range domain.Statuses {
		for i, inc := range p.columns[s] {
			if inc.ID == id {
				return s, i, true
			}
		}
	}
	return "", 0, false
}
