package registry

import (
	"context"
	"fmt"
	"io"
	"time"

	"bibaha/internal/utils"
	"bibaha/pkg/types"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeApplicationRepo struct {
	byID       map[string]*types.Application
	failUpdate error
	updates    int
}

func newFakeApplicationRepo(apps ...*types.Application) *fakeApplicationRepo {
	repo := &fakeApplicationRepo{byID: make(map[string]*types.Application)}
	for _, app := range apps {
		repo.byID[app.ID] = app
	}
	return repo
}

func (r *fakeApplicationRepo) ByID(_ context.Context, id string) (*types.Application, error) {
	app, ok := r.byID[id]
	if !ok {
		return nil, types.Ef(types.KindNotFound, "application %s not found", id)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) ByOwner(_ context.Context, ownerUserID string) (*types.Application, error) {
	for _, app := range r.byID {
		if app.OwnerUserID == ownerUserID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, types.Ef(types.KindNotFound, "no application for user %s", ownerUserID)
}

func (r *fakeApplicationRepo) ByStatus(_ context.Context, status types.ApplicationStatus) ([]*types.Application, error) {
	var apps []*types.Application
	for _, app := range r.byID {
		if app.Status == status {
			copied := *app
			apps = append(apps, &copied)
		}
	}
	return apps, nil
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *types.Application) error {
	if app.ID == "" {
		app.ID = utils.NanoID()
	}
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	copied := *app
	r.byID[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *types.Application) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.byID[app.ID]; !ok {
		return types.Ef(types.KindNotFound, "application %s not found", app.ID)
	}
	r.updates++
	copied := *app
	r.byID[app.ID] = &copied
	return nil
}

type fakeDocumentRepo struct {
	byID       map[string]*types.Document
	failCreate error
}

func newFakeDocumentRepo(docs ...*types.Document) *fakeDocumentRepo {
	repo := &fakeDocumentRepo{byID: make(map[string]*types.Document)}
	for _, doc := range docs {
		repo.byID[doc.ID] = doc
	}
	return repo
}

func (r *fakeDocumentRepo) ByID(_ context.Context, id string) (*types.Document, error) {
	doc, ok := r.byID[id]
	if !ok {
		return nil, types.Ef(types.KindNotFound, "document %s not found", id)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) ByApplicationID(_ context.Context, applicationID string) ([]*types.Document, error) {
	var docs []*types.Document
	for _, doc := range r.byID {
		if doc.ApplicationID == applicationID {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *types.Document) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if doc.ID == "" {
		doc.ID = utils.NanoID()
	}
	doc.UploadedAt = time.Now()
	doc.UpdatedAt = doc.UploadedAt
	copied := *doc
	r.byID[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeDocumentRepo) SetApproved(_ context.Context, id string) error {
	doc, ok := r.byID[id]
	if !ok {
		return types.Ef(types.KindNotFound, "document %s not found", id)
	}
	doc.Status = types.DocumentStatusApproved
	doc.RejectReason = nil
	return nil
}

func (r *fakeDocumentRepo) SetRejected(_ context.Context, id, reason string) error {
	doc, ok := r.byID[id]
	if !ok {
		return types.Ef(types.KindNotFound, "document %s not found", id)
	}
	doc.Status = types.DocumentStatusRejected
	doc.RejectReason = &reason
	return nil
}

func (r *fakeDocumentRepo) Replace(_ context.Context, id, storageKey, fileName, mimeType string, sizeBytes int64) error {
	doc, ok := r.byID[id]
	if !ok || doc.Status != types.DocumentStatusRejected {
		return types.Ef(types.KindInvalidState, "document %s is not rejected", id)
	}
	doc.Status = types.DocumentStatusPending
	doc.RejectReason = nil
	doc.IsReuploaded = true
	doc.StorageKey = storageKey
	doc.FileName = fileName
	doc.MimeType = mimeType
	doc.FileSizeBytes = sizeBytes
	return nil
}

type fakeBlobStore struct {
	objects    map[string][]byte
	failPut    error
	puts       []string
	deletes    []string
	signedBase string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte), signedBase: "https://blobs.test"}
}

func (s *fakeBlobStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	if s.failPut != nil {
		return "", s.failPut
	}
	s.objects[key] = body
	s.puts = append(s.puts, key)
	return key, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeBlobStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("no object at %s", key)
	}
	return s.signedBase + "/" + key, nil
}
