package types

import (
	"time"
)

type IncidentPriority string

const (
	PriorityCritica IncidentPriority = "critica"
	PriorityAlta    IncidentPriority = "alta"
	PriorityMedia   IncidentPriority = "media"
	PriorityBaja    IncidentPriority = "baja"
)

func (p IncidentPriority) Valid() bool {
	switch p {
	case PriorityCritica, PriorityAlta, PriorityMedia, PriorityBaja:
		return true
	}
	return false
}

type IncidentStatus string

const (
	IncidentStatusPending  IncidentStatus = "pending"
	IncidentStatusApproved IncidentStatus = "approved"
	IncidentStatusRejected IncidentStatus = "rejected"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentStatusPending, IncidentStatusApproved, IncidentStatusRejected:
		return true
	}
	return false
}

type Incident struct {
	ID             string           `db:"id" json:"id"`
	Title          string           `db:"title" json:"title"`
	Description    string           `db:"description" json:"description"`
	Area           string           `db:"area" json:"area"`
	Classification []string         `db:"classification" json:"classification"` // jsonb array
	Priority       IncidentPriority `db:"priority" json:"priority"`
	Room           string           `db:"room" json:"room"`
	Reporter       string           `db:"reporter" json:"reporter"`
	Status         IncidentStatus   `db:"status" json:"status"`
	MediaURL       *string          `db:"media_url" json:"mediaUrl"`
	MediaPath      *string          `db:"media_path" json:"mediaPath"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

// IncidentFilter narrows snapshot queries. Zero values mean "no constraint".
type IncidentFilter struct {
	Status   IncidentStatus
	Area     string
	Room     string
	Priority IncidentPriority
	From     *time.Time
	To       *time.Time
}
