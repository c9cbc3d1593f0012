package types

import "time"

// RecentLimit caps the per-group recent incident list.
const RecentLimit = 5

// GroupStatistic is a derived summary for one group key (a user or a room).
// Never persisted; recomputed from the current snapshot on every refresh.
type GroupStatistic struct {
	Key      string      `json:"key"`
	Name     string      `json:"name"`
	Total    int         `json:"total"`
	Criticas int         `json:"criticas"`
	Altas    int         `json:"altas"`
	Medias   int         `json:"medias"`
	Bajas    int         `json:"bajas"`
	Recent   []*Incident `json:"recent"`
}

// StatsSnapshot is the output of one aggregation pass.
type StatsSnapshot struct {
	FetchedAt time.Time         `json:"fetchedAt"`
	Filter    IncidentFilter    `json:"-"`
	Users     []*GroupStatistic `json:"users"`
	Rooms     []*GroupStatistic `json:"rooms"`
}
