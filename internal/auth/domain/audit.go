package domain

import "time"

// Audit actions recorded by the auth core. Writes are best-effort: a failed
// append never fails the authentication operation itself.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
)

// AuditEntry is one row in the append-only action log.
type AuditEntry struct {
	ID     string // ULID
	UserID int64
	Action string
	Detail string
	At     time.Time
}
