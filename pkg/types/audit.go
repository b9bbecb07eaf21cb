package types

import "time"

// Audit actions recorded for privileged mutations.
const (
	ActionApplicationApproved   = "application_approved"
	ActionApplicationRejected   = "application_rejected"
	ActionApplicationVerified   = "application_verified"
	ActionApplicationUnverified = "application_unverified"
	ActionApplicationEdited     = "application_edited"
	ActionReviewStarted         = "review_started"
	ActionDocumentApproved      = "document_approved"
	ActionDocumentRejected      = "document_rejected"
)

// Audit resource types.
const (
	ResourceApplication = "application"
	ResourceDocument    = "document"
)

// AuditLogEntry is one append-only record of a privileged action. Rows are
// never updated or deleted once written.
type AuditLogEntry struct {
	ID           string         `db:"id"`
	ActorID      string         `db:"actor_id"`
	ActorName    string         `db:"actor_name"`
	ActorRole    string         `db:"actor_role"`
	Action       string         `db:"action"`
	ResourceType string         `db:"resource_type"`
	ResourceID   string         `db:"resource_id"`
	Details      map[string]any `db:"details"`
	CreatedAt    time.Time      `db:"created_at"`
}
