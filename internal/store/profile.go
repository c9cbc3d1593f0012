package store

import (
	"context"
	"fmt"

	"opsboard/internal/utils"
	"opsboard/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileTableName = "opsboard.profiles"

var profileColumns = utils.StructTagValues(types.Profile{})

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Profile(ctx context.Context, profileID string) (*types.Profile, error) {

	query, args, err := psql().Select(profileColumns...).From(profileTableName).
		Where(sq.Eq{"id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, r.pool, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepository) ProfilesByIDs(ctx context.Context, profileIDs []string) ([]*types.Profile, error) {
	if len(profileIDs) == 0 {
		return []*types.Profile{}, nil
	}

	query, args, err := psql().Select(profileColumns...).From(profileTableName).
		Where(sq.Eq{"id": profileIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profiles query: %w", err)
	}

	var profiles = make([]*types.Profile, 0)
	if err := pgxscan.Select(ctx, r.pool, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	return profiles, nil
}

// UpsertProfile keeps the app-side row in sync with the auth provider the
// first time a subject shows up.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *types.Profile) error {

	query := `
		INSERT INTO opsboard.profiles (id, display_name, role, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id)
		DO UPDATE SET display_name = COALESCE(EXCLUDED.display_name, opsboard.profiles.display_name)`

	_, err := r.pool.Exec(ctx, query, profile.ID, nullable(utils.PtrString(profile.DisplayName)), profile.Role)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}
