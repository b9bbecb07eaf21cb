package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bibaha/pkg/types"
)

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// respondError maps the domain error taxonomy to HTTP statuses. An explicit
// status overrides the mapping.
func (s *Service) respondError(w http.ResponseWriter, err error, status ...int) {
	code := http.StatusInternalServerError

	switch types.KindOf(err) {
	case types.KindNotFound:
		code = http.StatusNotFound
	case types.KindInvalidState, types.KindConflict:
		code = http.StatusConflict
	case types.KindValidationFailed:
		code = http.StatusBadRequest
	case types.KindForbidden:
		code = http.StatusForbidden
	case types.KindStorageFailure, types.KindDependencyFailure:
		code = http.StatusBadGateway
	}

	if len(status) > 0 {
		code = status[0]
	}

	if code >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
	}

	msg := "internal error"
	var domainErr *types.Error
	if errors.As(err, &domainErr) {
		msg = domainErr.Msg
	}

	s.respondJSON(w, code, map[string]any{
		"error": msg,
		"kind":  types.KindOf(err),
	})
}
