package notify

import (
	"context"
	"fmt"

	"bibaha/pkg/types"
)

type Repository interface {
	Create(ctx context.Context, n *types.Notification) error
	ByUser(ctx context.Context, userID string) ([]*types.Notification, error)
	UnreadCountByUser(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Dispatcher manages per-user alert records. Rows are only ever created as a
// side effect of rejection decisions; the sole mutation is marking read. The
// client discovers new rows by polling, so no push machinery lives here.
type Dispatcher struct {
	repo Repository
}

func NewDispatcher(repo Repository) *Dispatcher {
	return &Dispatcher{repo: repo}
}

func (d *Dispatcher) Create(ctx context.Context, n *types.Notification) error {
	return d.repo.Create(ctx, n)
}

// DocumentRejected records the alert an applicant sees after a registrar
// rejects one of their uploads.
func (d *Dispatcher) DocumentRejected(ctx context.Context, userID, applicationID, documentID string, docType types.DocumentType, reason string) error {
	return d.repo.Create(ctx, &types.Notification{
		UserID:        userID,
		ApplicationID: &applicationID,
		DocumentID:    &documentID,
		NType:         types.NotificationDocumentRejected,
		Title:         fmt.Sprintf("%s rejected", docType.DisplayName()),
		Message:       fmt.Sprintf("Your %s was rejected: %s. Please upload a corrected copy.", docType.DisplayName(), reason),
	})
}

// ApplicationRejected records the alert for a rejected application.
func (d *Dispatcher) ApplicationRejected(ctx context.Context, userID, applicationID, reason string) error {
	return d.repo.Create(ctx, &types.Notification{
		UserID:        userID,
		ApplicationID: &applicationID,
		NType:         types.NotificationApplicationRejected,
		Title:         "Application rejected",
		Message:       fmt.Sprintf("Your marriage registration application was rejected: %s", reason),
	})
}

func (d *Dispatcher) ListByUser(ctx context.Context, userID string) ([]*types.Notification, error) {
	return d.repo.ByUser(ctx, userID)
}

func (d *Dispatcher) UnreadCount(ctx context.Context, userID string) (int, error) {
	return d.repo.UnreadCountByUser(ctx, userID)
}

func (d *Dispatcher) MarkRead(ctx context.Context, id, userID string) error {
	return d.repo.MarkRead(ctx, id, userID)
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, userID string) error {
	return d.repo.MarkAllRead(ctx, userID)
}
