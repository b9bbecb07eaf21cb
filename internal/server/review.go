package server

import (
	"encoding/json"
	"net/http"
	"time"

	"bibaha/pkg/types"
)

func (s *Service) handleListApplications(w http.ResponseWriter, r *http.Request) {
	status := types.ApplicationStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = types.ApplicationStatusSubmitted
	}

	apps, err := s.workflow.ListApplications(r.Context(), status)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, apps)
}

func (s *Service) handleBeginReview(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, err := s.workflow.BeginReview(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

func (s *Service) handleApproveApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, err := s.workflow.ApproveApplication(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

type rejectRequest struct {
	Reason         string `json:"reason"`
	NotifyByEmail  bool   `json:"notifyByEmail"`
	RecipientEmail string `json:"recipientEmail"`
}

func (s *Service) handleRejectApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid request body", err))
		return
	}

	app, err := s.workflow.RejectApplication(r.Context(), r.PathValue("id"), req.Reason, actor)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

type verifyRequest struct {
	CertificateNumber string `json:"certificateNumber"`
	RegistrationDate  string `json:"registrationDate"` // YYYY-MM-DD
}

func (s *Service) handleVerifyApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid request body", err))
		return
	}

	registrationDate, err := time.Parse("2006-01-02", req.RegistrationDate)
	if err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "registration date must be YYYY-MM-DD", err))
		return
	}

	app, err := s.workflow.VerifyApplication(r.Context(), r.PathValue("id"), actor, req.CertificateNumber, registrationDate)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

func (s *Service) handleUnverifyApplication(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	app, err := s.workflow.UnverifyApplication(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

func (s *Service) handleEditApplication(w http.ResponseWriter, r *http.Request) {
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

	app, err := s.workflow.UpdateApplicationFields(r.Context(), r.PathValue("id"), patch, actor)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, app)
}

func (s *Service) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := s.trail.ByResource(r.Context(), types.ResourceApplication, r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Service) handleApproveDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	documentID := r.PathValue("id")
	if err := s.workflow.ApproveDocument(r.Context(), documentID, actor); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"approved": documentID})
}

func (s *Service) handleRejectDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, types.WrapE(types.KindValidationFailed, "invalid request body", err))
		return
	}

	documentID := r.PathValue("id")
	if err := s.workflow.RejectDocument(r.Context(), documentID, req.Reason, actor, req.NotifyByEmail, req.RecipientEmail); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"rejected": documentID})
}
