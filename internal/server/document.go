package server

import (
	"io"
	"net/http"
	"time"

	"bibaha/internal/registry"
	"bibaha/pkg/types"
)

// 16 MiB upload cap, comfortably above scanned document sizes.
const maxUploadBytes = 16 << 20

type documentUploadForm struct {
	DocType   string `form:"doc_type"`
	BelongsTo string `form:"belongs_to"`
}

func (s *Service) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid multipart form", err))
		return
	}

	var uploadForm documentUploadForm
	if err := decoder.Decode(&uploadForm, r.MultipartForm.Value); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid upload fields", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "file field is required", err))
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, types.WrapE(types.KindStorageFailure, "failed to read upload", err))
		return
	}

	app, err := s.applications.CreateDraft(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	doc, err := s.documents.Upload(r.Context(), actor.ID, registry.DocumentUpload{
		ApplicationID: app.ID,
		BelongsTo:     types.DocumentParty(uploadForm.BelongsTo),
		DocType:       types.DocumentType(uploadForm.DocType),
		FileName:      header.Filename,
		MimeType:      header.Header.Get("Content-Type"),
		Body:          body,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	_, docs, _, err := s.applications.Overview(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Service) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	documentID := r.PathValue("id")
	if err := s.documents.Delete(r.Context(), actor.ID, documentID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"deleted": documentID})
}

func (s *Service) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid multipart form", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "file field is required", err))
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, types.WrapE(types.KindStorageFailure, "failed to read upload", err))
		return
	}

	documentID := r.PathValue("id")
	doc, err := s.documents.Replace(r.Context(), actor.ID, documentID, body, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Service) handleDocumentDownloadURL(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")

	url, err := s.documents.DownloadURL(r.Context(), documentID, time.Duration(s.config.SignedURLTTLSec)*time.Second)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
