package board

import (
	"context"
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/access"
	"github.com/alexanderramin/incidentboard/internal/domain"
)

// Load fetches the incidents visible to viewer. Viewers who may not see
// every incident only get the ones assigned to them.
func Load(ctx context.Context, fetcher IncidentFetcher, viewer domain.Viewer) ([]domain.Incident, error) {
	all, err := fetcher.ListIncidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching incidents: %w", err)
	}
	return Scope(all, viewer), nil
}

// Scope applies the visibility rule for viewer to incidents, keeping order.
func Scope(incidents []domain.Incident, viewer domain.Viewer) []domain.Incident {
	if access.HasCapability(viewer.Role, access.ViewAllIncidents) {
		return incidents
	}
	out := make([]domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.AssignedTo(viewer.ID) {
			out = append(out, inc)
		}
	}
	return out
}
