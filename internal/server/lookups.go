package server

import (
	"net/http"
)

func (s *Service) handleLookups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	areas, err := s.lookups.Areas(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch areas")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch lookups")
		return
	}

	classifications, err := s.lookups.Classifications(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch classifications")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch lookups")
		return
	}

	rooms, err := s.lookups.Rooms(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch rooms")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch lookups")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"areas":           areas,
		"classifications": classifications,
		"rooms":           rooms,
	})
}
