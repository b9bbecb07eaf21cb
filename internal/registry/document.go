package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bibaha/internal/utils"
	"bibaha/pkg/types"

	"github.com/sirupsen/logrus"
)

type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// DocumentUpload carries everything needed to attach one file to a case.
type DocumentUpload struct {
	ApplicationID string
	BelongsTo     types.DocumentParty
	DocType       types.DocumentType
	FileName      string
	MimeType      string
	Body          []byte
}

// DocumentService owns per-document upload, deletion and replacement, and the
// status writes the review workflow drives. Blob and row are not linked by a
// transaction, so the blob is always written first and deleted again when the
// row write fails.
type DocumentService struct {
	docs   DocumentRepo
	apps   ApplicationRepo
	blobs  ObjectStorage
	logger *logrus.Logger
}

func NewDocumentService(docs DocumentRepo, apps ApplicationRepo, blobs ObjectStorage, logger *logrus.Logger) *DocumentService {
	return &DocumentService{docs: docs, apps: apps, blobs: blobs, logger: logger}
}

func (s *DocumentService) Get(ctx context.Context, documentID string) (*types.Document, error) {
	return s.docs.ByID(ctx, documentID)
}

func (s *DocumentService) List(ctx context.Context, applicationID string) ([]*types.Document, error) {
	return s.docs.ByApplicationID(ctx, applicationID)
}

// Upload writes the blob to the object store, then inserts the metadata row.
// A failed row insert deletes the blob again so no orphan is left behind.
func (s *DocumentService) Upload(ctx context.Context, ownerUserID string, upload DocumentUpload) (*types.Document, error) {

	if !types.ValidDocumentType(upload.DocType) {
		return nil, types.Ef(types.KindValidationFailed, "unknown document type %q", upload.DocType)
	}
	if !types.ValidDocumentParty(upload.BelongsTo) {
		return nil, types.Ef(types.KindValidationFailed, "unknown document party %q", upload.BelongsTo)
	}
	if len(upload.Body) == 0 {
		return nil, types.E(types.KindValidationFailed, "document body is empty")
	}

	app, err := s.apps.ByID(ctx, upload.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.OwnerUserID != ownerUserID {
		return nil, types.Ef(types.KindForbidden, "application %s does not belong to user %s", app.ID, ownerUserID)
	}

	key := documentKey(app.ID, upload.FileName)
	if _, err := s.blobs.Put(ctx, key, upload.Body, upload.MimeType); err != nil {
		return nil, types.WrapE(types.KindStorageFailure, "failed to store document blob", err)
	}

	doc := &types.Document{
		ApplicationID: app.ID,
		BelongsTo:     upload.BelongsTo,
		DocType:       upload.DocType,
		Status:        types.DocumentStatusPending,
		StorageKey:    key,
		FileName:      upload.FileName,
		MimeType:      upload.MimeType,
		FileSizeBytes: int64(len(upload.Body)),
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.WithError(delErr).WithField("storage_key", key).Error("failed to clean up orphaned blob")
		}
		return nil, types.WrapE(types.KindStorageFailure, "failed to record document", err)
	}

	return doc, nil
}

// Delete removes a document while the application is still editable. Once the
// case is submitted or decided the uploads are part of the record.
func (s *DocumentService) Delete(ctx context.Context, ownerUserID, documentID string) error {

	doc, err := s.docs.ByID(ctx, documentID)
	if err != nil {
		return err
	}

	app, err := s.apps.ByID(ctx, doc.ApplicationID)
	if err != nil {
		return err
	}
	if app.OwnerUserID != ownerUserID {
		return types.Ef(types.KindForbidden, "document %s does not belong to user %s", documentID, ownerUserID)
	}

	switch app.Status {
	case types.ApplicationStatusSubmitted, types.ApplicationStatusUnderReview, types.ApplicationStatusApproved:
		return types.Ef(types.KindForbidden, "documents cannot be deleted while the application is %s", app.Status)
	}

	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		return types.WrapE(types.KindStorageFailure, "failed to delete document blob", err)
	}

	return s.docs.Delete(ctx, documentID)
}

// Replace swaps a rejected document's file in place: same row, same ID, new
// blob, status back to pending. Concurrent replace or delete on the same
// document is serialized by the repository's compare-and-swap on status. The
// previous blob is intentionally left in the object store.
func (s *DocumentService) Replace(ctx context.Context, ownerUserID, documentID string, body []byte, fileName, mimeType string) (*types.Document, error) {

	if len(body) == 0 {
		return nil, types.E(types.KindValidationFailed, "document body is empty")
	}

	doc, err := s.docs.ByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	app, err := s.apps.ByID(ctx, doc.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.OwnerUserID != ownerUserID {
		return nil, types.Ef(types.KindForbidden, "document %s does not belong to user %s", documentID, ownerUserID)
	}

	if doc.Status != types.DocumentStatusRejected {
		return nil, types.Ef(types.KindInvalidState, "document %s is %s, only rejected documents can be replaced", documentID, doc.Status)
	}

	key := documentKey(app.ID, fileName)
	if _, err := s.blobs.Put(ctx, key, body, mimeType); err != nil {
		return nil, types.WrapE(types.KindStorageFailure, "failed to store replacement blob", err)
	}

	if err := s.docs.Replace(ctx, documentID, key, fileName, mimeType, int64(len(body))); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.WithError(delErr).WithField("storage_key", key).Error("failed to clean up replacement blob")
		}
		return nil, err
	}

	return s.docs.ByID(ctx, documentID)
}

// Approve and Reject are registrar decisions; they are only reached through
// the review workflow, which owns the audit and notification fan-out.

func (s *DocumentService) Approve(ctx context.Context, documentID string) error {
	return s.docs.SetApproved(ctx, documentID)
}

func (s *DocumentService) Reject(ctx context.Context, documentID, reason string) error {
	if len(strings.TrimSpace(reason)) < types.MinRejectReasonLen {
		return types.Ef(types.KindValidationFailed, "rejection reason must be at least %d characters", types.MinRejectReasonLen)
	}
	return s.docs.SetRejected(ctx, documentID, reason)
}

// DownloadURL returns a signed, time-limited URL for the stored file.
func (s *DocumentService) DownloadURL(ctx context.Context, documentID string, ttl time.Duration) (string, error) {
	doc, err := s.docs.ByID(ctx, documentID)
	if err != nil {
		return "", err
	}

	url, err := s.blobs.SignedURL(ctx, doc.StorageKey, ttl)
	if err != nil {
		return "", types.WrapE(types.KindStorageFailure, "failed to sign document url", err)
	}
	return url, nil
}

func documentKey(applicationID, fileName string) string {
	return fmt.Sprintf("documents/%s/%s/%s", applicationID, utils.NanoIDSize(12), fileName)
}
