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

const (
	areaTableName           = "opsboard.areas"
	classificationTableName = "opsboard.classifications"
	roomTableName           = "opsboard.rooms"
)

var (
	areaColumns           = utils.StructTagValues(types.Area{})
	classificationColumns = utils.StructTagValues(types.Classification{})
	roomColumns           = utils.StructTagValues(types.Room{})
)

// LookupRepository serves the seeded filter tables. Runtime access is
// read-only; the sync methods exist for the seed command.
type LookupRepository struct {
	pool *pgxpool.Pool
}

func NewLookupRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool}
}

func (r *LookupRepository) Areas(ctx context.Context) ([]*types.Area, error) {
	var areas = make([]*types.Area, 0)
	if err := r.list(ctx, areaTableName, areaColumns, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *LookupRepository) Classifications(ctx context.Context) ([]*types.Classification, error) {
	var classifications = make([]*types.Classification, 0)
	if err := r.list(ctx, classificationTableName, classificationColumns, &classifications); err != nil {
		return nil, err
	}
	return classifications, nil
}

func (r *LookupRepository) Rooms(ctx context.Context) ([]*types.Room, error) {
	var rooms = make([]*types.Room, 0)
	if err := r.list(ctx, roomTableName, roomColumns, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *LookupRepository) list(ctx context.Context, table string, columns []string, dest any) error {
	query, args, err := psql().Select(columns...).From(table).
		Where(sq.Eq{"is_active": true}).
		OrderBy("display_order asc").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate lookup query for %s: %w", table, err)
	}

	if err := pgxscan.Select(ctx, r.pool, dest, query, args...); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", table, err)
	}

	return nil
}

func (r *LookupRepository) SyncAreas(ctx context.Context, areas []types.Area) error {
	rows := make([]syncRow, 0, len(areas))
	for i := range areas {
		rows = append(rows, syncRow{id: areas[i].ID, values: utils.StructToMap(areas[i])})
	}
	return r.sync(ctx, areaTableName, rows)
}

func (r *LookupRepository) SyncClassifications(ctx context.Context, classifications []types.Classification) error {
	rows := make([]syncRow, 0, len(classifications))
	for i := range classifications {
		rows = append(rows, syncRow{id: classifications[i].ID, values: utils.StructToMap(classifications[i])})
	}
	return r.sync(ctx, classificationTableName, rows)
}

func (r *LookupRepository) SyncRooms(ctx context.Context, rooms []types.Room) error {
	rows := make([]syncRow, 0, len(rooms))
	for i := range rooms {
		rows = append(rows, syncRow{id: rooms[i].ID, values: utils.StructToMap(rooms[i])})
	}
	return r.sync(ctx, roomTableName, rows)
}

type syncRow struct {
	id     string
	values map[string]any
}

// sync makes the table match the given rows exactly: upsert everything in the
// list, delete everything not in it.
func (r *LookupRepository) sync(ctx context.Context, table string, rows []syncRow) error {

	ids := make([]string, 0, len(rows))

	for _, row := range rows {
		ids = append(ids, row.id)

		insert := psql().Insert(table).SetMap(row.values)
		query, args, err := insert.Suffix(upsertSuffix(row.values)).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate upsert for %s: %w", table, err)
		}

		if _, err := r.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert row %s into %s: %w", row.id, table, err)
		}
	}

	query, args, err := psql().Delete(table).Where(sq.NotEq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate prune query for %s: %w", table, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to prune %s: %w", table, err)
	}

	return nil
}

func upsertSuffix(values map[string]any) string {
	suffix := "ON CONFLICT (id) DO UPDATE SET "
	first := true
	for column := range values {
		if column == "id" {
			continue
		}
		if !first {
			suffix += ", "
		}
		suffix += fmt.Sprintf("%s = EXCLUDED.%s", column, column)
		first = false
	}
	return suffix
}
