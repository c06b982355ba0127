package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/incidentboard/internal/db"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/repository"
)

type incidentService struct {
	incidents repository.IncidentRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewIncidentService(incidents repository.IncidentRepo, uow db.UnitOfWork, observers ...UseCaseObserver) IncidentService {
	return &incidentService{
		incidents: incidents,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// StatusChangeMessage is the notification text sent to an assignee.
func StatusChangeMessage(incidentID int64, status domain.Status) string {
	return fmt.Sprintf("La incidencia #%d cambió a %s", incidentID, status)
}

func (s *incidentService) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	list, err := s.incidents.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Incident, 0, len(list))
	for _, inc := range list {
		out = append(out, *inc)
	}
	return out, nil
}

func (s *incidentService) GetIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	return s.incidents.GetByID(ctx, id)
}

func (s *incidentService) UpdateStatus(ctx context.Context, id int64, status domain.Status) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"incident_id": id,
		"status":      string(status),
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-status",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txIncidents := repository.NewSQLiteIncidentRepo(tx)
		txNotifications := repository.NewSQLiteNotificationRepo(tx)

		inc, err := txIncidents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txIncidents.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if inc.Status == status || inc.AssigneeID == nil {
			return nil
		}

		fields["notified"] = *inc.AssigneeID
		return txNotifications.Create(ctx, &domain.Notification{
			UserID:     *inc.AssigneeID,
			IncidentID: id,
			Message:    StatusChangeMessage(id, status),
		})
	})
}

func (s *incidentService) CreateIncident(ctx context.Context, inc *domain.Incident) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-incident",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"incident_id": inc.ID},
		})
	}()

	if inc.Status != "" && !inc.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, inc.Status)
	}
	return s.incidents.Create(ctx, inc)
}
