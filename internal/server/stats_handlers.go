package server

import (
	"net/http"

	"opsboard/internal/stats"
	"opsboard/pkg/types"
)

func (s *Service) handleUserStats(w http.ResponseWriter, r *http.Request) {
	snapshot, stale := s.statsSnapshot(w, r)
	if snapshot == nil {
		return
	}
	s.respondStats(w, snapshot, stale, snapshot.Users)
}

func (s *Service) handleRoomStats(w http.ResponseWriter, r *http.Request) {
	snapshot, stale := s.statsSnapshot(w, r)
	if snapshot == nil {
		return
	}
	s.respondStats(w, snapshot, stale, snapshot.Rooms)
}

// statsSnapshot serves the current aggregation. A period parameter gets its
// own aggregation pass scoped to that window; the shared snapshot and its
// filter are never touched, so one caller's period cannot leak into another's
// response. Without a period, a failed refetch falls back to the previous
// snapshot marked stale; with no previous snapshot it is a 500. The nil
// return means the response has been written.
func (s *Service) statsSnapshot(w http.ResponseWriter, r *http.Request) (*types.StatsSnapshot, bool) {
	query := r.URL.Query()

	if period := query.Get("period"); period != "" {
		from, to, err := stats.QuincenaWindow(period)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}

		snapshot, err := s.stats.SnapshotFor(r.Context(), types.IncidentFilter{
			Status: types.IncidentStatusApproved,
			From:   &from,
			To:     &to,
		})
		if err != nil {
			s.logger.WithError(err).Error("period-scoped aggregation failed")
			s.respondError(w, http.StatusInternalServerError, "statistics unavailable")
			return nil, false
		}

		return snapshot, false
	}

	snapshot, staleErr := s.stats.Snapshot()

	if query.Get("refresh") == "1" || snapshot == nil {
		if err := s.stats.Refresh(r.Context()); err != nil {
			s.logger.WithError(err).Error("statistics refresh failed")
		}
		snapshot, staleErr = s.stats.Snapshot()
	}

	if snapshot == nil {
		s.respondError(w, http.StatusInternalServerError, "statistics unavailable")
		return nil, false
	}

	return snapshot, staleErr != nil
}

// respondStats echoes the effective window so period-scoped responses are
// self-describing.
func (s *Service) respondStats(w http.ResponseWriter, snapshot *types.StatsSnapshot, stale bool, groups []*types.GroupStatistic) {
	body := map[string]any{
		"stats":     groups,
		"fetchedAt": snapshot.FetchedAt,
		"stale":     stale,
	}
	if snapshot.Filter.From != nil && snapshot.Filter.To != nil {
		body["from"] = snapshot.Filter.From
		body["to"] = snapshot.Filter.To
	}

	s.respondJSON(w, http.StatusOK, body)
}
