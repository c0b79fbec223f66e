package db

import (
	"fmt"
	"time"

	"github.com/baiirun/board/internal/model"
)

// AddComment appends a comment to a card.
func (db *DB) AddComment(cardID, author, content string) (*model.Comment, error) {
	if err := db.cardExists(cardID); err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:        model.NewCommentID(),
		CardID:    cardID,
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(`
		INSERT INTO comments (id, card_id, author, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.CardID, c.Author, c.Content, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return c, nil
}

// GetComments returns a card's comments, oldest first.
func (db *DB) GetComments(cardID string) ([]model.Comment, error) {
	rows, err := db.Query(`
		SELECT id, card_id, author, content, created_at
		FROM comments
		WHERE card_id = ?
		ORDER BY created_at ASC, id ASC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.CardID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
