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

const chatTableName = "opsboard.chat_messages"

var chatColumns = utils.StructTagValues(types.ChatMessage{})

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// AppendMessage writes one chat turn. History is append-only; there is no
// update or delete path.
func (r *ChatRepository) AppendMessage(ctx context.Context, message *types.ChatMessage) error {

	message.ID = utils.NanoID()
	message.CreatedAt = time.Now()

	messageMap := utils.StructToMap(message)

	query, args, err := psql().Insert(chatTableName).SetMap(messageMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert chat message query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append chat message")

}

func (r *ChatRepository) MessagesByUser(ctx context.Context, userID string, limit uint64) ([]*types.ChatMessage, error) {

	builder := psql().Select(chatColumns...).From(chatTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc")

	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat history query: %w", err)
	}

	var messages = make([]*types.ChatMessage, 0)
	if err := pgxscan.Select(ctx, r.pool, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %w", err)
	}

	return messages, nil
}
