package board

import "github.com/alexanderramin/incidentboard/internal/domain"

// Store is the board's in-memory incident list, kept in fetch order.
//
// A Store belongs to one event loop and is not safe for concurrent use. The
// Controller is its only mutator besides Replace, which the fetch boundary
// uses for the initial load and full refreshes. Once closed, every mutation
// is ignored so late completions from an unmounted board are harmless.
type Store struct {
	items   []domain.Incident
	version uint64
	closed  bool
}

// NewStore creates a store holding a copy of incidents.
func NewStore(incidents []domain.Incident) *Store {
	s := &Store{}
	s.Replace(incidents)
	return s
}

// Replace overwrites the whole list. Used for bulk load and refresh only.
func (s *Store) Replace(incidents []domain.Incident) {
	if s.closed {
		return
	}
	s.items = append([]domain.Incident(nil), incidents...)
	s.version++
}

// Snapshot returns a copy of the incidents in store order.
func (s *Store) Snapshot() []domain.Incident {
	return append([]domain.Incident(nil), s.items...)
}

// Get returns the incident with the given id.
func (s *Store) Get(id int64) (domain.Incident, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Incident{}, false
	}
	return s.items[i], true
}

// Len returns the number of incidents held, recognized status or not.
func (s *Store) Len() int { return len(s.items) }

// Version increases on every change. Callers can use it to memoize
// projections.
func (s *Store) Version() uint64 { return s.version }

// Close tears the store down. Later mutations are dropped.
func (s *Store) Close() { s.closed = true }

// Closed reports whether Close has been called.
func (s *Store) Closed() bool { return s.closed }

func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// columnIndex is the incident's position among incidents sharing its status.
func (s *Store) columnIndex(id int64) int {
	pos := s.indexOf(id)
	if pos < 0 {
		return -1
	}
	status := s.items[pos].Status
	n := 0
	for i := 0; i < pos; i++ {
		if s.items[i].Status == status {
			n++
		}
	}
	return n
}

// place sets the incident's status and moves it so that it sits at
// column index idx within that status. An index past the end appends to the
// column. Returns false when the incident is absent or the store is closed.
func (s *Store) place(id int64, status domain.Status, idx int) bool {
	if s.closed {
		return false
	}
	from := s.indexOf(id)
	if from < 0 {
		return false
	}
	inc := s.items[from]
	inc.Status = status
	rest := append(s.items[:from:from], s.items[from+1:]...)

	at := from
	if at > len(rest) {
		at = len(rest)
	}
	var slots []int
	for i := range rest {
		if rest[i].Status == status {
			slots = append(slots, i)
		}
	}
	switch {
	case idx < 0:
		// keep the store slot
	case idx < len(slots):
		at = slots[idx]
	case len(slots) > 0:
		at = slots[len(slots)-1] + 1
	}
	s.items = insertAt(rest, at, inc)
	s.version++
	return true
}

// restore puts one incident back to a captured status and store slot. No
// other incident's fields are touched.
func (s *Store) restore(id int64, status domain.Status, slot int) bool {
	if s.closed {
		return false
	}
	from := s.indexOf(id)
	if from < 0 {
		return false
	}
	inc := s.items[from]
	inc.Status = status
	rest := append(s.items[:from:from], s.items[from+1:]...)
	if slot < 0 || slot > len(rest) {
		slot = len(rest)
	}
	s.items = insertAt(rest, slot, inc)
	s.version++
	return true
}

func insertAt(items []domain.Incident, at int, inc domain.Incident) []domain.Incident {
	items = append(items, domain.Incident{})
	copy(items[at+1:], items[at:])
	items[at] = inc
	return items
}
