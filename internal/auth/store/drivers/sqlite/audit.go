package sqlite

import (
	"context"

	"github.com/pointdesk/pointdesk/internal/auth/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) AppendAuditEntry(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, user_id, action, detail, at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Action, e.Detail, e.At.UTC())
	return err
}
