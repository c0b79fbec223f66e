package db

import (
	"fmt"

	"github.com/baiirun/board/internal/model"
)

// ListCards returns cards, each with its project attached, in board order.
func (db *DB) ListCards(f model.CardFilter) ([]model.Card, error) {
	query := `SELECT ` + cardColumns + cardFrom + ` WHERE 1=1`
	args := []any{}

	if f.ProjectID != "" {
		query += ` AND c.project_id = ?`
		args = append(args, f.ProjectID)
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, fmt.Errorf("invalid status: %s", *f.Status)
		}
		query += ` AND c.status = ?`
		args = append(args, *f.Status)
	}
	query += ` ORDER BY c.position ASC, c.created_at ASC`

	return db.queryCards(query, args...)
}

// StatusReport contains aggregated board status.
type StatusReport struct {
	ProjectID  string
	Counts     map[model.Status]int
	Total      int
	TopVoted   []model.Card // most voted open cards (not done)
	RecentDone []model.Card // last 3 completed
}

// BoardStatus returns an aggregated status report, optionally for one project.
func (db *DB) BoardStatus(projectID string) (*StatusReport, error) {
	report := &StatusReport{ProjectID: projectID, Counts: map[model.Status]int{}}
	for _, s := range model.StatusOrder {
		report.Counts[s] = 0
	}

	// Count by status
	query := `SELECT status, COUNT(*) FROM cards`
	args := []any{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` GROUP BY status`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		report.Counts[model.Status(status)] = count
		report.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	where := ``
	if projectID != "" {
		where = ` AND c.project_id = ?`
	}

	report.TopVoted, err = db.queryCards(`SELECT `+cardColumns+cardFrom+`
		WHERE c.status != 'done'`+where+`
		ORDER BY 11 DESC, c.position ASC LIMIT 3`, args...)
	if err != nil {
		return nil, err
	}

	report.RecentDone, err = db.queryCards(`SELECT `+cardColumns+cardFrom+`
		WHERE c.status = 'done'`+where+`
		ORDER BY c.updated_at DESC LIMIT 3`, args...)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// queryCards is a helper to scan card rows.
func (db *DB) queryCards(query string, args ...any) ([]model.Card, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []model.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}
