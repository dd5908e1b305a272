package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/repositories"
)

// PostgresMessageRepository implements the MessageRepository interface
// using PostgreSQL
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(config *RepositoryConfig) repositories.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new message
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		msg.ConversationID,
		msg.Role,
		msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("conversation %s: %w", msg.ConversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// ListByConversation retrieves all messages for a conversation in
// created_at ascending order. The model API is sensitive to turn order, so
// this ordering must never be changed.
func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, conversation_id, role, content, created_at
		FROM %s
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, conversationID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Return empty slice instead of nil
	if msgs == nil {
		msgs = []models.Message{}
	}

	return msgs, nil
}

// DeleteByConversation removes all messages for a conversation
func (r *PostgresMessageRepository) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE conversation_id = $1
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, conversationID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return 0, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("delete messages: %w", err)
	}

	return result.RowsAffected(), nil
}
