package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-travel-planner/internal/model"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (user_id, sender, text, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		m.UserID, m.Sender, m.Text, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// ListByUser returns the most recent limit messages in ascending order.
func (r *MessageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, sender, text, created_at FROM (
		     SELECT id, user_id, sender, text, created_at
		     FROM messages WHERE user_id = $1
		     ORDER BY created_at DESC, id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY created_at ASC, id ASC`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
