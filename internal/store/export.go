package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exportSchema = "opsboard"

// ExportRepository reads whole tables for the backup document. Table names
// come from the exporter's fixed list, never from request input.
type ExportRepository struct {
	pool *pgxpool.Pool
}

func NewExportRepository(pool *pgxpool.Pool) *ExportRepository {
	return &ExportRepository{pool: pool}
}

func (r *ExportRepository) TableRows(ctx context.Context, table string) ([]map[string]any, error) {

	ident := pgx.Identifier{exportSchema, table}

	rows, err := r.pool.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()

	out := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", table, err)
		}

		row := make(map[string]any, len(fields))
		for i, field := range fields {
			row[field.Name] = values[i]
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table %s: %w", table, err)
	}

	return out, nil
}
