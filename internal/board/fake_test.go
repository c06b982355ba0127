package board

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

var errRemote = errors.New("server returned status 500")

type persistCall struct {
	IncidentID int64
	Status     domain.Status
}

// fakePersister records calls and fails for the incident ids in failFor.
type fakePersister struct {
	calls   []persistCall
	failFor map[int64]error
}

func (f *fakePersister) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	f.calls = append(f.calls, persistCall{IncidentID: id, Status: status})
	if err, ok := f.failFor[id]; ok {
		return err
	}
	return nil
}

var fixtureTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func incident(id int64, status domain.Status) domain.Incident {
	return domain.Incident{
		ID:          id,
		Status:      status,
		Priority:    domain.PriorityMedium,
		Area:        "Planta eléctrica",
		Module:      "Eléctrica",
		Description: "incidencia de prueba",
		CreatedAt:   fixtureTime,
		UpdatedAt:   fixtureTime,
	}
}

func assigned(inc domain.Incident, userID int64) domain.Incident {
	inc.AssigneeID = &userID
	return inc
}

func statusOf(t interface{ Helper() }, s *Store, id int64) domain.Status {
	t.Helper()
	inc, ok := s.Get(id)
	if !ok {
		return ""
	}
	return inc.Status
}

func ids(incs []domain.Incident) []int64 {
	out := make([]int64, 0, len(incs))
	for _, inc := range incs {
		out = append(out, inc.ID)
	}
	return out
}

var (
	admin   = domain.Viewer{ID: 1, Role: domain.RoleAdmin}
	manager = domain.Viewer{ID: 2, Role: domain.RoleManager}
	reader  = domain.Viewer{ID: 3, Role: domain.RoleReader}
)
