package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"bibaha/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftApplication(id, owner string) *types.Application {
	now := time.Now()
	return &types.Application{
		ID:          id,
		OwnerUserID: owner,
		Status:      types.ApplicationStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validUpload(appID string) DocumentUpload {
	return DocumentUpload{
		ApplicationID: appID,
		BelongsTo:     types.DocumentPartyOwner,
		DocType:       types.DocTypeAadhaar,
		FileName:      "aadhaar-front.jpg",
		MimeType:      "image/jpeg",
		Body:          []byte("jpeg bytes"),
	}
}

func TestUploadStoresBlobThenRow(t *testing.T) {
	apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
	docs := newFakeDocumentRepo()
	blobs := newFakeBlobStore()
	svc := NewDocumentService(docs, apps, blobs, testLogger())

	doc, err := svc.Upload(context.Background(), "user-1", validUpload("app-1"))
	require.NoError(t, err)

	assert.Equal(t, types.DocumentStatusPending, doc.Status)
	assert.Equal(t, int64(len("jpeg bytes")), doc.FileSizeBytes)
	assert.Contains(t, blobs.objects, doc.StorageKey)
	assert.Len(t, docs.byID, 1)
}

func TestUploadValidation(t *testing.T) {
	apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
	svc := NewDocumentService(newFakeDocumentRepo(), apps, newFakeBlobStore(), testLogger())
	ctx := context.Background()

	badType := validUpload("app-1")
	badType.DocType = "passport"
	_, err := svc.Upload(ctx, "user-1", badType)
	assert.Equal(t, types.KindValidationFailed, types.KindOf(err))

	badParty := validUpload("app-1")
	badParty.BelongsTo = "witness"
	_, err = svc.Upload(ctx, "user-1", badParty)
	assert.Equal(t, types.KindValidationFailed, types.KindOf(err))

	empty := validUpload("app-1")
	empty.Body = nil
	_, err = svc.Upload(ctx, "user-1", empty)
	assert.Equal(t, types.KindValidationFailed, types.KindOf(err))
}

func TestUploadForbiddenForOtherUsersApplication(t *testing.T) {
	apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
	svc := NewDocumentService(newFakeDocumentRepo(), apps, newFakeBlobStore(), testLogger())

	_, err := svc.Upload(context.Background(), "user-2", validUpload("app-1"))
	assert.Equal(t, types.KindForbidden, types.KindOf(err))
}

func TestUploadCompensatesBlobWhenRowInsertFails(t *testing.T) {
	apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
	docs := newFakeDocumentRepo()
	docs.failCreate = errors.New("insert failed")
	blobs := newFakeBlobStore()
	svc := NewDocumentService(docs, apps, blobs, testLogger())

	_, err := svc.Upload(context.Background(), "user-1", validUpload("app-1"))
	require.Error(t, err)
	assert.Equal(t, types.KindStorageFailure, types.KindOf(err))

	// The blob written before the failed insert is deleted again.
	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes)
	assert.Empty(t, blobs.objects)
}

func TestDeleteForbiddenOnceSubmitted(t *testing.T) {
	app := draftApplication("app-1", "user-1")
	app.Status = types.ApplicationStatusSubmitted
	apps := newFakeApplicationRepo(app)

	doc := &types.Document{ID: "doc-1", ApplicationID: "app-1", Status: types.DocumentStatusPending, StorageKey: "documents/app-1/x/f.jpg"}
	docs := newFakeDocumentRepo(doc)
	svc := NewDocumentService(docs, apps, newFakeBlobStore(), testLogger())

	err := svc.Delete(context.Background(), "user-1", "doc-1")
	assert.Equal(t, types.KindForbidden, types.KindOf(err))
}

func TestDeleteAllowedWhileDraftRemovesBlobAndRow(t *testing.T) {
	apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
	blobs := newFakeBlobStore()
	key, err := blobs.Put(context.Background(), "documents/app-1/x/f.jpg", []byte("bytes"), "image/jpeg")
	require.NoError(t, err)

	doc := &types.Document{ID: "doc-1", ApplicationID: "app-1", Status: types.DocumentStatusPending, StorageKey: key}
	docs := newFakeDocumentRepo(doc)
	svc := NewDocumentService(docs, apps, blobs, testLogger())

	require.NoError(t, svc.Delete(context.Background(), "user-1", "doc-1"))
	assert.Empty(t, blobs.objects)
	assert.Empty(t, docs.byID)
}

func TestReplaceOnlyRejectedDocuments(t *testing.T) {
	tests := []struct {
		name     string
		status   types.DocumentStatus
		wantKind types.ErrorKind
	}{
		{name: "pending", status: types.DocumentStatusPending, wantKind: types.KindInvalidState},
		{name: "approved", status: types.DocumentStatusApproved, wantKind: types.KindInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
			doc := &types.Document{ID: "doc-1", ApplicationID: "app-1", Status: tt.status, StorageKey: "documents/app-1/x/f.jpg"}
			svc := NewDocumentService(newFakeDocumentRepo(doc), apps, newFakeBlobStore(), testLogger())

			_, err := svc.Replace(context.Background(), "user-1", "doc-1", []byte("new bytes"), "f2.jpg", "image/jpeg")
			assert.Equal(t, tt.wantKind, types.KindOf(err))
		})
	}
}

func TestReplaceKeepsRowIDAndResetsStatus(t *testing.T) {
	apps := newFakeApplicationRepo(draftApplication("app-1", "user-1"))
	reason := "photo is blurred"
	doc := &types.Document{
		ID:            "doc-1",
		ApplicationID: "app-1",
		Status:        types.DocumentStatusRejected,
		RejectReason:  &reason,
		StorageKey:    "documents/app-1/x/old.jpg",
		FileName:      "old.jpg",
	}
	docs := newFakeDocumentRepo(doc)
	blobs := newFakeBlobStore()
	svc := NewDocumentService(docs, apps, blobs, testLogger())

	replaced, err := svc.Replace(context.Background(), "user-1", "doc-1", []byte("new bytes"), "new.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", replaced.ID)
	assert.Equal(t, types.DocumentStatusPending, replaced.Status)
	assert.Nil(t, replaced.RejectReason)
	assert.True(t, replaced.IsReuploaded)
	assert.Equal(t, "new.jpg", replaced.FileName)
	assert.NotEqual(t, "documents/app-1/x/old.jpg", replaced.StorageKey)
}

func TestRejectRequiresMinimumReasonLength(t *testing.T) {
	doc := &types.Document{ID: "doc-1", ApplicationID: "app-1", Status: types.DocumentStatusPending}
	docs := newFakeDocumentRepo(doc)
	svc := NewDocumentService(docs, newFakeApplicationRepo(), newFakeBlobStore(), testLogger())
	ctx := context.Background()

	err := svc.Reject(ctx, "doc-1", "blurry")
	assert.Equal(t, types.KindValidationFailed, types.KindOf(err))

	// Whitespace padding does not count toward the minimum.
	err = svc.Reject(ctx, "doc-1", "   blurry   ")
	assert.Equal(t, types.KindValidationFailed, types.KindOf(err))

	// The document is untouched after a failed validation.
	unchanged, getErr := docs.ByID(ctx, "doc-1")
	require.NoError(t, getErr)
	assert.Equal(t, types.DocumentStatusPending, unchanged.Status)

	require.NoError(t, svc.Reject(ctx, "doc-1", "photo is blurred and unreadable"))
	rejected, getErr := docs.ByID(ctx, "doc-1")
	require.NoError(t, getErr)
	assert.Equal(t, types.DocumentStatusRejected, rejected.Status)
}

func TestDownloadURLSignsStorageKey(t *testing.T) {
	blobs := newFakeBlobStore()
	key, err := blobs.Put(context.Background(), "documents/app-1/x/f.jpg", []byte("bytes"), "image/jpeg")
	require.NoError(t, err)

	doc := &types.Document{ID: "doc-1", ApplicationID: "app-1", StorageKey: key}
	svc := NewDocumentService(newFakeDocumentRepo(doc), newFakeApplicationRepo(), blobs, testLogger())

	url, err := svc.DownloadURL(context.Background(), "doc-1", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/"+key, url)
}
