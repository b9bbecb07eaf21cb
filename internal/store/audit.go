package store

import (
	"bibaha/internal/utils"
	"bibaha/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const auditLogTableName = "bibaha.audit_log"

var auditLogColumns = utils.StructTagValues(types.AuditLogEntry{})

type AuditLogRepository struct {
	db Querier
}

func NewAuditLogRepository(db Querier) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append inserts an entry. Rows in this table are never updated or deleted.
func (r *AuditLogRepository) Append(ctx context.Context, entry *types.AuditLogEntry) error {

	if entry.ID == "" {
		entry.ID = utils.NanoID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query, args, err := psql().
		Insert(auditLogTableName).
		SetMap(utils.StructToMap(entry)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert audit entry query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.WrapError(err, "failed to append audit entry")
}

// ByResource returns all entries for one resource, newest first.
func (r *AuditLogRepository) ByResource(ctx context.Context, resourceType, resourceID string) ([]*types.AuditLogEntry, error) {
	query, args, err := psql().
		Select(auditLogColumns...).
		From(auditLogTableName).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": resourceID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate audit entries query: %w", err)
	}

	var entries = make([]*types.AuditLogEntry, 0)
	err = pgxscan.Select(ctx, r.db, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit entries: %w", err)
	}

	return entries, nil
}
