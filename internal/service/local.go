package service

import (
	"database/sql"

	"github.com/alexanderramin/incidentboard/internal/db"
	"github.com/alexanderramin/incidentboard/internal/repository"
)

type localBackend struct {
	IncidentService
	UserService
	NotificationService
}

// NewLocalBackend wires the SQLite repositories into a Backend.
func NewLocalBackend(conn *sql.DB, observers ...UseCaseObserver) Backend {
	return &localBackend{
		IncidentService: NewIncidentService(
			repository.NewSQLiteIncidentRepo(conn),
			db.NewSQLiteUnitOfWork(conn),
			observers...,
		),
		UserService:         NewUserService(repository.NewSQLiteUserRepo(conn)),
		NotificationService: NewNotificationService(repository.NewSQLiteNotificationRepo(conn)),
	}
}
