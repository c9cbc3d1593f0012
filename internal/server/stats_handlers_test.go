package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"opsboard/pkg/types"
)

type fakeStatsProvider struct {
	current  *types.StatsSnapshot
	staleErr error

	windowResult *types.StatsSnapshot
	windowErr    error

	refreshCalls     int
	snapshotForCalls []types.IncidentFilter
}

func (f *fakeStatsProvider) Refresh(_ context.Context) error {
	f.refreshCalls++
	return nil
}

func (f *fakeStatsProvider) Snapshot() (*types.StatsSnapshot, error) {
	return f.current, f.staleErr
}

func (f *fakeStatsProvider) SnapshotFor(_ context.Context, filter types.IncidentFilter) (*types.StatsSnapshot, error) {
	f.snapshotForCalls = append(f.snapshotForCalls, filter)
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	out := *f.windowResult
	out.Filter = filter
	return &out, nil
}

func statsService(t *testing.T, provider *fakeStatsProvider) *Service {
	t.Helper()
	s := newTestService(t, &fakeCompleter{}, &fakeChatStore{}, &fakeExporter{})
	s.stats = provider
	return s
}

func TestUserStats_PeriodDoesNotLeakIntoOtherCallers(t *testing.T) {
	provider := &fakeStatsProvider{
		current: &types.StatsSnapshot{
			FetchedAt: time.Now(),
			Users:     []*types.GroupStatistic{{Key: "all-time"}},
		},
		windowResult: &types.StatsSnapshot{
			FetchedAt: time.Now(),
			Users:     []*types.GroupStatistic{{Key: "windowed"}},
		},
	}
	s := statsService(t, provider)

	// caller A asks for a quincena window
	rec := httptest.NewRecorder()
	s.handleUserStats(rec, httptest.NewRequest(http.MethodGet, "/stats/users?period=2026-01-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("period request status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "windowed") {
		t.Errorf("period request body = %s, want the window aggregation", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2026-01-01") || !strings.Contains(rec.Body.String(), "2026-01-16") {
		t.Errorf("period response should echo its window, body: %s", rec.Body.String())
	}

	if len(provider.snapshotForCalls) != 1 {
		t.Fatalf("SnapshotFor calls = %d, want 1", len(provider.snapshotForCalls))
	}
	filter := provider.snapshotForCalls[0]
	if filter.Status != types.IncidentStatusApproved || filter.From == nil || filter.To == nil {
		t.Errorf("window filter = %+v, want approved with both bounds", filter)
	}
	if provider.refreshCalls != 0 {
		t.Errorf("period request triggered %d shared refreshes, want 0", provider.refreshCalls)
	}

	// caller B without a period gets the shared snapshot, untouched
	rec = httptest.NewRecorder()
	s.handleUserStats(rec, httptest.NewRequest(http.MethodGet, "/stats/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("plain request status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "all-time") || strings.Contains(rec.Body.String(), "windowed") {
		t.Errorf("plain request body = %s, want the shared snapshot, not caller A's window", rec.Body.String())
	}
}

func TestUserStats_InvalidPeriod(t *testing.T) {
	s := statsService(t, &fakeStatsProvider{windowResult: &types.StatsSnapshot{}})

	rec := httptest.NewRecorder()
	s.handleUserStats(rec, httptest.NewRequest(http.MethodGet, "/stats/users?period=2026-13-9", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUserStats_PeriodAggregationFailure(t *testing.T) {
	s := statsService(t, &fakeStatsProvider{
		current:   &types.StatsSnapshot{Users: []*types.GroupStatistic{{Key: "all-time"}}},
		windowErr: errors.New("db down"),
	})

	rec := httptest.NewRecorder()
	s.handleUserStats(rec, httptest.NewRequest(http.MethodGet, "/stats/users?period=2026-01-1", nil))

	// no stale fallback across windows; the cached snapshot covers a
	// different range
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRoomStats_StaleFlagOnRefreshError(t *testing.T) {
	provider := &fakeStatsProvider{
		current: &types.StatsSnapshot{
			FetchedAt: time.Now(),
			Rooms:     []*types.GroupStatistic{{Key: "sala-101"}},
		},
		staleErr: errors.New("refetch failed"),
	}
	s := statsService(t, provider)

	rec := httptest.NewRecorder()
	s.handleRoomStats(rec, httptest.NewRequest(http.MethodGet, "/stats/rooms", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"stale":true`) {
		t.Errorf("body = %s, want stale flagged", rec.Body.String())
	}
}
