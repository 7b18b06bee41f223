package store

import (
	"context"
	"database/sql"
	"time"
)

func (r *SQLiteRepository) CreateConversation(ctx context.Context, c *Conversation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_conversations (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Title, c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_conversations WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []*Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// GetConversation returns the conversation with its full message history,
// or nil when it does not exist or belongs to another user.
func (r *SQLiteRepository) GetConversation(ctx context.Context, id, userID string) (*Conversation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_conversations WHERE id = ? AND user_id = ?
	`, id, userID)

	c, err := scanConversation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	messages, err := r.ListChatMessages(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Messages = messages
	return c, nil
}

func (r *SQLiteRepository) RenameConversation(ctx context.Context, id, userID, title string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE chat_conversations SET title = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, time.Now().UTC().Format(time.RFC3339), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) DeleteConversation(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_conversations WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) ListChatMessages(ctx context.Context, conversationID string) ([]*ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM chat_messages WHERE conversation_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func (r *SQLiteRepository) CreateChatMessage(ctx context.Context, m *ChatMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt.Format(time.RFC3339))
	return err
}

// TouchConversation bumps updated_at so the conversation sorts to the top
// of the list; a non-empty title also renames it.
func (r *SQLiteRepository) TouchConversation(ctx context.Context, id, title string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if title != "" {
		_, err := r.db.ExecContext(ctx, `
			UPDATE chat_conversations SET title = ?, updated_at = ? WHERE id = ?
		`, title, now, id)
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE chat_conversations SET updated_at = ? WHERE id = ?
	`, now, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*Conversation, error) {
	var c Conversation
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}
