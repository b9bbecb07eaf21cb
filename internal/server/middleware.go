package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bibaha/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyActor contextKey = "actor"

const accessTokenCookieName = "bibaha_access_token"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth verifies the access token and puts the Actor on the context.
// The token arrives either as a bearer header or inside the encrypted
// session cookie set by the portal frontend.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := s.extractAccessToken(r)
		if !ok {
			s.respondError(w, types.E(types.KindForbidden, "authentication required"), http.StatusUnauthorized)
			return
		}

		set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch JWKS")
			s.respondError(w, types.E(types.KindDependencyFailure, "authentication unavailable"), http.StatusServiceUnavailable)
			return
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKeySet(set),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Debug("failed to parse JWT")
			s.respondError(w, types.E(types.KindForbidden, "invalid access token"), http.StatusUnauthorized)
			return
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			s.respondError(w, types.E(types.KindForbidden, "token carries no subject"), http.StatusUnauthorized)
			return
		}

		actor := types.Actor{ID: userID, Role: types.RoleApplicant}

		var name string
		if err := token.Get("name", &name); err == nil {
			actor.Name = name
		}

		var role string
		if err := token.Get("role", &role); err == nil && role == string(types.RoleRegistrar) {
			actor.Role = types.RoleRegistrar
		}

		ctx := context.WithValue(r.Context(), contextKeyActor, actor)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRegistrar gates the review surface to the registrar role.
func (s *Service) RequireRegistrar(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := s.actorFromContext(r.Context())
		if err != nil || !actor.IsRegistrar() {
			s.respondError(w, types.E(types.KindForbidden, "registrar role required"), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) extractAccessToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}

	cookie, err := r.Cookie(accessTokenCookieName)
	if err != nil {
		return "", false
	}

	var accessToken string
	if err := s.cookie.Decode(accessTokenCookieName, cookie.Value, &accessToken); err != nil {
		s.logger.WithError(err).Debug("failed to decrypt access token cookie")
		return "", false
	}

	return accessToken, true
}

func (s *Service) actorFromContext(ctx context.Context) (types.Actor, error) {
	actor, ok := ctx.Value(contextKeyActor).(types.Actor)
	if !ok {
		return types.Actor{}, types.E(types.KindForbidden, "actor not found in context")
	}
	return actor, nil
}
