package server

import (
	"net/http"
)

func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	notifications, err := s.notifications.ListByUser(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, notifications)
}

func (s *Service) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	count, err := s.notifications.UnreadCount(r.Context(), actor.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.notifications.MarkRead(r.Context(), id, actor.ID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"read": id})
}

func (s *Service) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.notifications.MarkAllRead(r.Context(), actor.ID); err != nil {
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
