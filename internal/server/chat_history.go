package server

import (
	"net/http"
	"strconv"
)

const defaultChatHistoryLimit = 50

// handleChatHistory returns the caller's persisted chat turns, newest first.
func (s *Service) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := uint64(defaultChatHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	messages, err := s.chatLog.MessagesByUser(r.Context(), userID, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch chat history")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch chat history")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
