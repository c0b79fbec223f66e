package model

import "time"

type ChangeType string

const (
	ChangeCreated   ChangeType = "created"
	ChangeUpdated   ChangeType = "updated"
	ChangeDeleted   ChangeType = "deleted"
	ChangeCleared   ChangeType = "cleared"
	ChangeProcessed ChangeType = "processed"
)

// ChangeEvent describes a mutation of the board for real-time subscribers.
// CardID is empty for bulk changes.
type ChangeEvent struct {
	Type      ChangeType `json:"type"`
	CardID    string     `json:"card_id,omitempty"`
	Status    Status     `json:"status,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
