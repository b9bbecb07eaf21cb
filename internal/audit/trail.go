package audit

import (
	"context"
	"time"

	"bibaha/pkg/types"
)

type Repository interface {
	Append(ctx context.Context, entry *types.AuditLogEntry) error
	ByResource(ctx context.Context, resourceType, resourceID string) ([]*types.AuditLogEntry, error)
}

// Trail is the append-only log of privileged actions. Whether a failed write
// fails the surrounding decision is the caller's policy, not the trail's.
type Trail struct {
	repo Repository
}

func NewTrail(repo Repository) *Trail {
	return &Trail{repo: repo}
}

// Record appends one entry attributed to the acting user.
func (t *Trail) Record(ctx context.Context, actor types.Actor, action, resourceType, resourceID string, details map[string]any) error {
	return t.repo.Append(ctx, &types.AuditLogEntry{
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		ActorRole:    string(actor.Role),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now(),
	})
}

func (t *Trail) ByResource(ctx context.Context, resourceType, resourceID string) ([]*types.AuditLogEntry, error) {
	return t.repo.ByResource(ctx, resourceType, resourceID)
}
