package storage

import (
	"context"
	"database/sql"
	"log"

	"github.com/google/uuid"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

type MySQLAuditLogger struct {
	db *sql.DB
}

func NewMySQLAuditLogger(db *sql.DB) *MySQLAuditLogger {
	return &MySQLAuditLogger{db: db}
}

// Record writes the entry and only logs a failure.
func (l *MySQLAuditLogger) Record(ctx context.Context, e domain.AuditEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, resource, resource_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.Resource, e.ResourceID, e.Detail, e.CreatedAt,
	)
	if err != nil {
		log.Printf("audit %s %s/%s: %v", e.Action, e.Resource, e.ResourceID, err)
	}
}
