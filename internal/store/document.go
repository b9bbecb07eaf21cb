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

const documentTableName = "bibaha.documents"

var documentColumns = utils.StructTagValues(types.Document{})

type DocumentRepository struct {
	db Querier
}

func NewDocumentRepository(db Querier) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) ByID(ctx context.Context, id string) (*types.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc = new(types.Document)
	err = pgxscan.Get(ctx, r.db, doc, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.Ef(types.KindNotFound, "document %s not found", id)
	}

	return doc, nil
}

// ByApplicationID returns all documents for an application in upload order.
func (r *DocumentRepository) ByApplicationID(ctx context.Context, applicationID string) ([]*types.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"application_id": applicationID}).
		OrderBy("uploaded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate documents query: %w", err)
	}

	var docs = make([]*types.Document, 0)
	err = pgxscan.Select(ctx, r.db, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *types.Document) error {

	now := time.Now()
	if doc.ID == "" {
		doc.ID = utils.NanoID()
	}
	doc.UploadedAt = now
	doc.UpdatedAt = now

	query, args, err := psql().Insert(documentTableName).SetMap(utils.StructToMap(doc)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert document query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.WrapError(err, "failed to create document")
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {

	query, args, err := psql().Delete(documentTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete document query for document %s: %w", id, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.WrapError(err, "failed to delete document")
}

func (r *DocumentRepository) SetApproved(ctx context.Context, id string) error {

	query, args, err := psql().Update(documentTableName).
		Set("status", types.DocumentStatusApproved).
		Set("reject_reason", nil).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate approve document query for document %s: %w", id, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return utils.WrapError(err, "failed to approve document")
	}
	if tag.RowsAffected() == 0 {
		return types.Ef(types.KindNotFound, "document %s not found", id)
	}

	return nil
}

func (r *DocumentRepository) SetRejected(ctx context.Context, id, reason string) error {

	query, args, err := psql().Update(documentTableName).
		Set("status", types.DocumentStatusRejected).
		Set("reject_reason", reason).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate reject document query for document %s: %w", id, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return utils.WrapError(err, "failed to reject document")
	}
	if tag.RowsAffected() == 0 {
		return types.Ef(types.KindNotFound, "document %s not found", id)
	}

	return nil
}

// Replace swaps the stored blob reference and resets the row to pending. The
// WHERE clause compares-and-swaps on status=rejected, so concurrent replace
// (or a racing delete) makes the losing call match zero rows.
func (r *DocumentRepository) Replace(ctx context.Context, id, storageKey, fileName, mimeType string, sizeBytes int64) error {

	now := time.Now()

	query, args, err := psql().Update(documentTableName).
		Set("storage_key", storageKey).
		Set("file_name", fileName).
		Set("mime_type", mimeType).
		Set("file_size_bytes", sizeBytes).
		Set("status", types.DocumentStatusPending).
		Set("reject_reason", nil).
		Set("is_reuploaded", true).
		Set("uploaded_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "status": types.DocumentStatusRejected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate replace document query for document %s: %w", id, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return utils.WrapError(err, "failed to replace document")
	}
	if tag.RowsAffected() == 0 {
		return types.Ef(types.KindInvalidState, "document %s is not in rejected status", id)
	}

	return nil
}
