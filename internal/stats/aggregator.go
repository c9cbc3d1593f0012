package stats

import (
	"context"
	"sort"
	"sync"
	"time"

	"opsboard/internal/utils"
	"opsboard/pkg/types"

	"github.com/sirupsen/logrus"
)

type IncidentSource interface {
	IncidentsByFilter(ctx context.Context, filter types.IncidentFilter) ([]*types.Incident, error)
}

type NameSource interface {
	ProfilesByIDs(ctx context.Context, profileIDs []string) ([]*types.Profile, error)
}

// Aggregator reduces an incident snapshot into per-user and per-room
// summaries. It keeps the last good snapshot when a refresh fails, so
// consumers see stale data instead of nothing.
type Aggregator struct {
	logger    *logrus.Logger
	incidents IncidentSource
	profiles  NameSource

	mu       sync.Mutex
	filter   types.IncidentFilter
	snapshot *types.StatsSnapshot
	lastErr  error
}

func NewAggregator(logger *logrus.Logger, incidents IncidentSource, profiles NameSource) *Aggregator {
	return &Aggregator{
		logger:    logger,
		incidents: incidents,
		profiles:  profiles,
		filter:    types.IncidentFilter{Status: types.IncidentStatusApproved},
	}
}

// Refresh fetches the current snapshot and swaps it in. Concurrent callers
// may race; last write wins, both derive from the same authoritative source.
func (a *Aggregator) Refresh(ctx context.Context) error {
	snapshot, err := a.SnapshotFor(ctx, a.filter)
	if err != nil {
		a.logger.WithError(err).Error("statistics refresh failed, serving previous snapshot")
		a.mu.Lock()
		a.lastErr = err
		a.mu.Unlock()
		return err
	}

	a.mu.Lock()
	a.snapshot = snapshot
	a.lastErr = nil
	a.mu.Unlock()

	return nil
}

// SnapshotFor aggregates for an arbitrary filter without touching the cached
// snapshot, so a period-scoped request cannot leak its window into other
// callers.
func (a *Aggregator) SnapshotFor(ctx context.Context, filter types.IncidentFilter) (*types.StatsSnapshot, error) {
	incidents, err := a.incidents.IncidentsByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	users := Reduce(incidents, func(i *types.Incident) string { return i.Reporter })
	rooms := Reduce(incidents, func(i *types.Incident) string { return i.Room })

	a.resolveUserNames(ctx, users)
	for _, room := range rooms {
		room.Name = room.Key
	}

	return &types.StatsSnapshot{
		FetchedAt: time.Now(),
		Filter:    filter,
		Users:     users,
		Rooms:     rooms,
	}, nil
}

// Snapshot returns the last successful aggregation and the error of the most
// recent refresh, which is non-nil when the snapshot is stale.
func (a *Aggregator) Snapshot() (*types.StatsSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot, a.lastErr
}

// resolveUserNames swaps group keys for display names; a missing profile or
// empty name falls back to a truncated id.
func (a *Aggregator) resolveUserNames(ctx context.Context, groups []*types.GroupStatistic) {
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.Key)
	}

	names := make(map[string]string, len(ids))

	profiles, err := a.profiles.ProfilesByIDs(ctx, ids)
	if err != nil {
		a.logger.WithError(err).Warn("failed to resolve display names, falling back to ids")
	} else {
		for _, p := range profiles {
			if name := utils.PtrString(p.DisplayName); name != "" {
				names[p.ID] = name
			}
		}
	}

	for _, g := range groups {
		if name, ok := names[g.Key]; ok {
			g.Name = name
			continue
		}
		g.Name = truncateID(g.Key)
	}
}

// Reduce groups incidents by key and counts per priority, keeping the
// RecentLimit newest incidents per group. Output is sorted by total
// descending, name/key ascending on ties, so results are deterministic for a
// given snapshot.
func Reduce(incidents []*types.Incident, key func(*types.Incident) string) []*types.GroupStatistic {
	byKey := make(map[string]*types.GroupStatistic)

	for _, incident := range incidents {
		k := key(incident)

		group, ok := byKey[k]
		if !ok {
			group = &types.GroupStatistic{Key: k, Recent: make([]*types.Incident, 0, types.RecentLimit)}
			byKey[k] = group
		}

		group.Total++
		switch incident.Priority {
		case types.PriorityCritica:
			group.Criticas++
		case types.PriorityAlta:
			group.Altas++
		case types.PriorityMedia:
			group.Medias++
		case types.PriorityBaja:
			group.Bajas++
		}

		group.Recent = append(group.Recent, incident)
	}

	out := make([]*types.GroupStatistic, 0, len(byKey))
	for _, group := range byKey {
		sort.Slice(group.Recent, func(i, j int) bool {
			return group.Recent[i].CreatedAt.After(group.Recent[j].CreatedAt)
		})
		if len(group.Recent) > types.RecentLimit {
			group.Recent = group.Recent[:types.RecentLimit]
		}
		out = append(out, group)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})

	return out
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
