package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"opsboard/internal/llm"
	"opsboard/pkg/types"
)

// chatFallbackMessage is returned whenever the inference endpoint fails, so
// the client always has something to render.
const chatFallbackMessage = "Lo siento, el asistente no esta disponible en este momento. Intenta de nuevo en unos minutos."

func (s *Service) setFunctionCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func (s *Service) handleFunctionPreflight(w http.ResponseWriter, r *http.Request) {
	s.setFunctionCORSHeaders(w)
	w.WriteHeader(http.StatusOK)
}

// handleBackupFunction serves the full export as a downloadable attachment.
// Admin only; anything short of a resolved admin identity is a 401.
func (s *Service) handleBackupFunction(w http.ResponseWriter, r *http.Request) {
	s.setFunctionCORSHeaders(w)

	ident, err := s.authenticate(r)
	if err != nil {
		s.logger.WithError(err).Debug("backup request rejected: unauthenticated")
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := s.profiles.Profile(r.Context(), ident.UserID)
	if err != nil || profile.Role != types.RoleAdmin {
		s.respondError(w, http.StatusUnauthorized, "admin role required")
		return
	}

	document := s.exporter.Export(r.Context())

	filename := fmt.Sprintf("backup_%s_%s.json",
		document.Timestamp.Format("20060102"),
		document.Timestamp.Format("150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	s.respondJSON(w, http.StatusOK, document)
}

type chatRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
	Model   string        `json:"model"`
}

type chatResponse struct {
	Response string `json:"response"`
	Saved    bool   `json:"saved"`
}

// handleChatFunction proxies one chat turn to the local inference endpoint.
// Works without authentication; an authenticated caller additionally gets
// both turns persisted (best effort).
func (s *Service) handleChatFunction(w http.ResponseWriter, r *http.Request) {
	s.setFunctionCORSHeaders(w)

	var input chatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if input.Message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	// The full history is resent on every turn; only role and content travel.
	messages := make([]llm.Message, 0, len(input.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: s.config.ChatSystemPrompt})
	for _, m := range input.History {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: types.ChatRoleUser, Content: input.Message})

	reply, err := s.chat.Complete(r.Context(), messages, input.Model)
	if err != nil {
		s.logger.WithError(err).Error("inference request failed")
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "inference request failed",
			"response": chatFallbackMessage,
		})
		return
	}

	saved := false
	if ident, err := s.authenticate(r); err == nil {
		saved = s.persistChatTurn(r, ident.UserID, input.Message, reply)
	}

	s.respondJSON(w, http.StatusOK, chatResponse{Response: reply, Saved: saved})
}

// persistChatTurn appends both sides of the exchange. Failures are logged and
// swallowed; chat stays usable without durable history.
func (s *Service) persistChatTurn(r *http.Request, userID, message, reply string) bool {
	userMsg := &types.ChatMessage{UserID: userID, Role: types.ChatRoleUser, Content: message}
	if err := s.chatLog.AppendMessage(r.Context(), userMsg); err != nil {
		s.logger.WithError(err).Warn("failed to persist user chat message")
		return false
	}

	assistantMsg := &types.ChatMessage{UserID: userID, Role: types.ChatRoleAssistant, Content: reply}
	if err := s.chatLog.AppendMessage(r.Context(), assistantMsg); err != nil {
		s.logger.WithError(err).Warn("failed to persist assistant chat message")
		return false
	}

	return true
}
