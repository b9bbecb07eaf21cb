package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"bibaha/internal/audit"
	"bibaha/internal/notify"
	"bibaha/internal/registry"
	"bibaha/internal/review"
	"bibaha/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	applications  *registry.ApplicationService
	documents     *registry.DocumentService
	workflow      *review.Workflow
	notifications *notify.Dispatcher
	trail         *audit.Trail

	cookie *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	applications *registry.ApplicationService,
	documents *registry.DocumentService,
	workflow *review.Workflow,
	notifications *notify.Dispatcher,
	trail *audit.Trail,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		applications:  applications,
		documents:     documents,
		workflow:      workflow,
		notifications: notifications,
		trail:         trail,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/application", s.handleCreateDraft, http.MethodPost)
		r.HandleFunc("/api/application", s.handleGetApplication, http.MethodGet)
		r.HandleFunc("/api/application", s.handleUpdateDraft, http.MethodPatch)
		r.HandleFunc("/api/application/submit", s.handleSubmit, http.MethodPost)
		r.HandleFunc("/api/certificate", s.handleCertificateURL, http.MethodGet)

		r.HandleFunc("/api/documents", s.handleUploadDocument, http.MethodPost)
		r.HandleFunc("/api/documents", s.handleListDocuments, http.MethodGet)
		r.HandleFunc("/api/documents/:id", s.handleDeleteDocument, http.MethodDelete)
		r.HandleFunc("/api/documents/:id/replace", s.handleReplaceDocument, http.MethodPost)

		r.HandleFunc("/api/notifications", s.handleListNotifications, http.MethodGet)
		r.HandleFunc("/api/notifications/unread-count", s.handleUnreadCount, http.MethodGet)
		r.HandleFunc("/api/notifications/:id/read", s.handleMarkRead, http.MethodPost)
		r.HandleFunc("/api/notifications/read-all", s.handleMarkAllRead, http.MethodPost)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRegistrar)

			r.HandleFunc("/api/review/applications", s.handleListApplications, http.MethodGet)
			r.HandleFunc("/api/review/applications/:id/begin-review", s.handleBeginReview, http.MethodPost)
			r.HandleFunc("/api/review/applications/:id/approve", s.handleApproveApplication, http.MethodPost)
			r.HandleFunc("/api/review/applications/:id/reject", s.handleRejectApplication, http.MethodPost)
			r.HandleFunc("/api/review/applications/:id/verify", s.handleVerifyApplication, http.MethodPost)
			r.HandleFunc("/api/review/applications/:id/unverify", s.handleUnverifyApplication, http.MethodPost)
			r.HandleFunc("/api/review/applications/:id", s.handleEditApplication, http.MethodPatch)
			r.HandleFunc("/api/review/applications/:id/audit", s.handleAuditTrail, http.MethodGet)
			r.HandleFunc("/api/review/documents/:id/approve", s.handleApproveDocument, http.MethodPost)
			r.HandleFunc("/api/review/documents/:id/reject", s.handleRejectDocument, http.MethodPost)
			r.HandleFunc("/api/review/documents/:id/download", s.handleDocumentDownloadURL, http.MethodGet)
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
