package server

import (
	"encoding/json"
	"net/http"
	"time"

	"bibaha/pkg/types"
)

type applicationResponse struct {
	Application *types.Application `json:"application"`
	Documents   []*types.Document  `json:"documents,omitempty"`
	Step        *int               `json:"step,omitempty"`
}

func (s *Service) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, err := s.applications.CreateDraft(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, applicationResponse{Application: app})
}

func (s *Service) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, docs, step, err := s.applications.Overview(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, applicationResponse{Application: app, Documents: docs, Step: &step})
}

func (s *Service) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var patch types.ApplicationSections
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid request body", err))
		return
	}

	app, err := s.applications.UpdateDraft(r.Context(), actor.ID, patch)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, applicationResponse{Application: app})
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, err := s.applications.Submit(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, applicationResponse{Application: app})
}

func (s *Service) handleCertificateURL(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, _, _, err := s.applications.Overview(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	url, err := s.workflow.CertificateURL(r.Context(), app.ID, time.Duration(s.config.SignedURLTTLSec)*time.Second)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
