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

// PostgresConversationRepository implements the ConversationRepository
// interface using PostgreSQL
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationRepository creates a new PostgresConversationRepository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new conversation
func (r *PostgresConversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		conv.UserID,
		conv.Title,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("user %s: %w", conv.UserID, domain.ErrNotFound)
		}
		return fmt.Errorf("create conversation: %w", err)
	}

	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}

	return nil
}

// GetOwned retrieves a conversation by ID scoped to its owner
func (r *PostgresConversationRepository) GetOwned(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Conversations)

	return r.scanOne(ctx, query, conversationID, userID)
}

// GetByID retrieves a conversation by ID only (no owner scoping)
func (r *PostgresConversationRepository) GetByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Conversations)

	return r.scanOne(ctx, query, conversationID)
}

func (r *PostgresConversationRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Conversation, error) {
	var conv models.Conversation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("conversation: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	conv.Messages = []models.Message{}
	return &conv, nil
}

// ListByUser retrieves all conversations for a user, most recently updated
// first
func (r *PostgresConversationRepository) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, title, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Title,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conv.Messages = []models.Message{}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	// Return empty slice instead of nil
	if convs == nil {
		convs = []models.Conversation{}
	}

	return convs, nil
}

// UpdateTitle sets a conversation's title and touches updated_at
func (r *PostgresConversationRepository) UpdateTitle(ctx context.Context, conversationID, title string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, title, conversationID)
	if err != nil {
		return fmt.Errorf("update conversation title: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}

	return nil
}

// Touch bumps a conversation's updated_at
func (r *PostgresConversationRepository) Touch(ctx context.Context, conversationID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET updated_at = NOW()
		WHERE id = $1
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, conversationID); err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}

	return nil
}

// Delete removes a conversation; child messages cascade at the store level
func (r *PostgresConversationRepository) Delete(ctx context.Context, conversationID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, conversationID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("delete conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}

	return nil
}
