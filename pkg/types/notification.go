package types

import "time"

type NotificationType string

const (
	NotificationDocumentRejected    NotificationType = "document_rejected"
	NotificationApplicationRejected NotificationType = "application_rejected"
)

// Notification is a per-user alert record. Only the read flag ever mutates
// after insert; the client discovers new rows by polling.
type Notification struct {
	ID            string           `db:"id"`
	UserID        string           `db:"user_id"`
	ApplicationID *string          `db:"application_id"`
	DocumentID    *string          `db:"document_id"`
	NType         NotificationType `db:"ntype"`
	Title         string           `db:"title"`
	Message       string           `db:"message"`
	Read          bool             `db:"read"`
	CreatedAt     time.Time        `db:"created_at"`
}
