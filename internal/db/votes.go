package db

import (
	"fmt"
	"time"

	"github.com/baiirun/board/internal/model"
)

// AddVote records a vote by voter on a card. A repeat vote by the same voter
// is ignored and reported as recorded == false.
func (db *DB) AddVote(cardID, voter string) (recorded bool, err error) {
	if err := db.cardExists(cardID); err != nil {
		return false, err
	}

	result, err := db.Exec(`
		INSERT OR IGNORE INTO votes (id, card_id, voter_identity, created_at)
		VALUES (?, ?, ?, ?)`,
		model.NewVoteID(), cardID, voter, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to add vote: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// VoteCount returns the number of distinct voters on a card.
func (db *DB) VoteCount(cardID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM votes WHERE card_id = ?`, cardID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

func (db *DB) cardExists(id string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards WHERE id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check card: %w", err)
	}
	if count == 0 {
		return notFound("card", id, "list")
	}
	return nil
}
