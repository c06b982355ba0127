package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open; ALTER TABLE re-runs that hit an existing
// column are skipped.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre     TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		rol        TEXT NOT NULL
		           CHECK(rol IN ('administrador','gestor','reportante','lector')),
		estado     TEXT NOT NULL DEFAULT 'activo'
		           CHECK(estado IN ('activo','inactivo')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS incidents (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		estado         TEXT NOT NULL DEFAULT 'Pendiente'
		               CHECK(estado IN ('Pendiente','En curso','Resuelto')),
		prioridad      TEXT NOT NULL DEFAULT 'media'
		               CHECK(prioridad IN ('baja','media','alta')),
		responsable_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		area           TEXT NOT NULL DEFAULT '',
		modulo         TEXT NOT NULL DEFAULT '',
		descripcion    TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_incidents_estado ON incidents(estado)`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_responsable ON incidents(responsable_id)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		usuario_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		incidencia_id INTEGER NOT NULL REFERENCES incidents(id) ON DELETE CASCADE,
		mensaje       TEXT NOT NULL,
		leida         INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_usuario ON notifications(usuario_id, leida)`,

	// Photo evidence was added after the first release.
	`ALTER TABLE incidents ADD COLUMN url_foto TEXT NOT NULL DEFAULT ''`,
}
