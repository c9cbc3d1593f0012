package store

import (
	"context"
	"fmt"
	"time"

	"opsboard/internal/utils"
	"opsboard/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mediaTableName = "opsboard.uploaded_media"

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) CreateMedia(ctx context.Context, media *types.UploadedMedia) error {

	media.ID = utils.NanoID()
	media.CreatedAt = time.Now()

	mediaMap := utils.StructToMap(media)

	query, args, err := psql().Insert(mediaTableName).SetMap(mediaMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert media query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create media record")

}

// DeleteMediaByPath removes the record for a storage object, used when the
// owning row is deleted and the object has been removed from the bucket.
func (r *MediaRepository) DeleteMediaByPath(ctx context.Context, path string) error {

	query, args, err := psql().Delete(mediaTableName).Where(sq.Eq{"path": path}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete media query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete media record")

}
