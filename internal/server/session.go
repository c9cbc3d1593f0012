package server

import (
	"net/http"

	"opsboard/internal"
	"opsboard/internal/utils"
	"opsboard/pkg/types"
)

// handleCreateSession is the sign-in transition: it verifies the presented
// bearer token once and stores it in an encrypted cookie so browser clients
// don't re-send the raw token on every call.
func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ident, err := s.authenticate(r)
	if err != nil {
		s.logger.WithError(err).Debug("session exchange rejected")
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// First sign-in creates the app-side profile row.
	profile := &types.Profile{
		ID:   ident.UserID,
		Role: types.RoleUser,
	}
	if ident.Email != "" {
		profile.DisplayName = utils.StringPtr(ident.Email)
	}
	if err := s.profiles.UpsertProfile(r.Context(), profile); err != nil {
		s.logger.WithError(err).Error("failed to upsert profile on sign-in")
		s.respondError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}

	encoded, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.respondError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.config.SessionMaxAgeSec,
		HttpOnly: true,
		Secure:   s.config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"userId": ident.UserID})
}

// handleDeleteSession is the sign-out transition; after this no ambient
// credential survives on the client.
func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
