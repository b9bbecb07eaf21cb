package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bibaha/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Service{logger: logger}
}

func withActor(r *http.Request, actor types.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKeyActor, actor))
}

func TestRespondErrorMapsKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: types.E(types.KindNotFound, "application missing"), want: http.StatusNotFound},
		{name: "invalid state", err: types.E(types.KindInvalidState, "already submitted"), want: http.StatusConflict},
		{name: "conflict", err: types.E(types.KindConflict, "modified concurrently"), want: http.StatusConflict},
		{name: "validation", err: types.E(types.KindValidationFailed, "reason too short"), want: http.StatusBadRequest},
		{name: "forbidden", err: types.E(types.KindForbidden, "not your application"), want: http.StatusForbidden},
		{name: "storage", err: types.E(types.KindStorageFailure, "blob write failed"), want: http.StatusBadGateway},
		{name: "dependency", err: types.E(types.KindDependencyFailure, "audit write failed"), want: http.StatusBadGateway},
		{name: "unknown", err: context.DeadlineExceeded, want: http.StatusInternalServerError},
	}

	svc := testService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			svc.respondError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRequireRegistrar(t *testing.T) {
	svc := testService()
	handler := svc.RequireRegistrar(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("registrar passes", func(t *testing.T) {
		req := withActor(httptest.NewRequest(http.MethodGet, "/api/review/applications", nil),
			types.Actor{ID: "reg-1", Role: types.RoleRegistrar})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("applicant blocked", func(t *testing.T) {
		req := withActor(httptest.NewRequest(http.MethodGet, "/api/review/applications", nil),
			types.Actor{ID: "user-1", Role: types.RoleApplicant})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no actor blocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/review/applications", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestStripTrailingSlash(t *testing.T) {
	svc := testService()
	handler := svc.StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/documents/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/api/documents", rec.Header().Get("Location"))

	// Root stays untouched.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractAccessTokenBearerHeader(t *testing.T) {
	svc := testService()

	req := httptest.NewRequest(http.MethodGet, "/api/application", nil)
	req.Header.Set("Authorization", "Bearer token-123")

	token, ok := svc.extractAccessToken(req)
	require.True(t, ok)
	assert.Equal(t, "token-123", token)

	// No header and no cookie yields nothing.
	bare := httptest.NewRequest(http.MethodGet, "/api/application", nil)
	_, ok = svc.extractAccessToken(bare)
	assert.False(t, ok)
}
