package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baiirun/board/internal/model"
)

const cardColumns = `
	c.id, c.title, c.description, c.project_id, c.status, c.priority, c.position,
	c.created_by, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM votes v WHERE v.card_id = c.id),
	p.id, p.slug, p.name, p.color, p.icon`

const cardFrom = `
	FROM cards c
	JOIN projects p ON p.id = c.project_id`

// CreateCard inserts a new card at the end of the board. Zero timestamps are
// filled in and the card's Position is assigned.
func (db *DB) CreateCard(card *model.Card) error {
	if !card.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", card.Status)
	}
	if !card.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", card.Priority)
	}
	if _, err := db.GetProject(card.ProjectID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = card.CreatedAt
	}

	if err := db.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM cards`).Scan(&card.Position); err != nil {
		return fmt.Errorf("failed to compute position: %w", err)
	}

	_, err := db.Exec(`
		INSERT INTO cards (id, title, description, project_id, status, priority, position, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.Title, card.Description, card.ProjectID, card.Status, card.Priority,
		card.Position, card.CreatedBy, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCard retrieves a card by ID with its project and vote count.
func (db *DB) GetCard(id string) (*model.Card, error) {
	row := db.QueryRow(`SELECT `+cardColumns+cardFrom+` WHERE c.id = ?`, id)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card", id, "list")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// UpdateStatus changes a card's status.
func (db *DB) UpdateStatus(id string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	result, err := db.Exec(`
		UPDATE cards SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("card", id, "list")
	}
	return nil
}

// UpdateCard applies the non-nil fields of u to a card.
func (db *DB) UpdateCard(id string, u model.CardUpdate) error {
	sets := []string{}
	args := []any{}

	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return fmt.Errorf("title cannot be empty")
		}
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.ProjectID != nil {
		if _, err := db.GetProject(*u.ProjectID); err != nil {
			return err
		}
		sets = append(sets, "project_id = ?")
		args = append(args, *u.ProjectID)
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return fmt.Errorf("invalid status: %s", *u.Status)
		}
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
	}
	if u.Priority != nil {
		if !u.Priority.IsValid() {
			return fmt.Errorf("invalid priority: %s", *u.Priority)
		}
		sets = append(sets, "priority = ?")
		args = append(args, *u.Priority)
	}
	if u.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *u.Position)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	result, err := db.Exec(`UPDATE cards SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("card", id, "list")
	}
	return nil
}

// DeleteCard removes a card and its votes and comments.
func (db *DB) DeleteCard(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Check if card exists first
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM cards WHERE id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check card: %w", err)
	}
	if count == 0 {
		return notFound("card", id, "list")
	}

	if _, err := tx.Exec(`DELETE FROM votes WHERE card_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE card_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	return tx.Commit()
}

// DeleteAllCards clears the board. Projects are kept.
func (db *DB) DeleteAllCards() error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"votes", "comments", "cards"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*model.Card, error) {
	card := &model.Card{Project: &model.Project{}}
	var description, createdBy sql.NullString
	err := row.Scan(
		&card.ID, &card.Title, &description, &card.ProjectID, &card.Status, &card.Priority, &card.Position,
		&createdBy, &card.CreatedAt, &card.UpdatedAt,
		&card.Votes,
		&card.Project.ID, &card.Project.Slug, &card.Project.Name, &card.Project.Color, &card.Project.Icon,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		card.Description = &description.String
	}
	if createdBy.Valid {
		card.CreatedBy = &createdBy.String
	}
	return card, nil
}
