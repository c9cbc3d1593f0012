package store

import (
	"context"
	"fmt"
	"time"

	"opsboard/internal/utils"
	"opsboard/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const incidentTableName = "opsboard.incidents"

var incidentColumns = utils.StructTagValues(types.Incident{})

type IncidentRepository struct {
	pool *pgxpool.Pool
}

func NewIncidentRepository(pool *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{pool: pool}
}

func (r *IncidentRepository) Incident(ctx context.Context, incidentID string) (*types.Incident, error) {

	query, args, err := psql().Select(incidentColumns...).From(incidentTableName).
		Where(sq.Eq{"id": incidentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate incident query: %w", err)
	}

	var incident types.Incident
	err = pgxscan.Get(ctx, r.pool, &incident, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to fetch incident: %w", err)
	}

	return &incident, nil
}

func (r *IncidentRepository) IncidentsByFilter(ctx context.Context, filter types.IncidentFilter) ([]*types.Incident, error) {

	builder := psql().Select(incidentColumns...).From(incidentTableName)

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Area != "" {
		builder = builder.Where(sq.Eq{"area": filter.Area})
	}
	if filter.Room != "" {
		builder = builder.Where(sq.Eq{"room": filter.Room})
	}
	if filter.Priority != "" {
		builder = builder.Where(sq.Eq{"priority": filter.Priority})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.To})
	}

	query, args, err := builder.OrderBy("created_at desc").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate incident filter query: %w", err)
	}

	var incidents = make([]*types.Incident, 0)
	if err := pgxscan.Select(ctx, r.pool, &incidents, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch incidents: %w", err)
	}

	return incidents, nil
}

func (r *IncidentRepository) CreateIncident(ctx context.Context, incident *types.Incident) error {

	now := time.Now()
	incident.ID = utils.NanoID()
	incident.Status = types.IncidentStatusPending
	incident.CreatedAt = now
	incident.UpdatedAt = now

	incidentMap := utils.StructToMap(incident)

	query, args, err := psql().Insert(incidentTableName).SetMap(incidentMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert incident query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create incident")

}

// UpdateIncidentStatus applies the moderation decision. All other fields are
// frozen after submission.
func (r *IncidentRepository) UpdateIncidentStatus(ctx context.Context, incidentID string, status types.IncidentStatus) error {

	query, args, err := psql().Update(incidentTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": incidentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update incident status query for incident %s: %w", incidentID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrIncidentNotFound
	}

	return nil
}

func (r *IncidentRepository) DeleteIncident(ctx context.Context, incidentID string) error {

	query, args, err := psql().Delete(incidentTableName).Where(sq.Eq{"id": incidentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete incident query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrIncidentNotFound
	}

	return nil
}
