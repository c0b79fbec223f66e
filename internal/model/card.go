package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ErrNotFound is the common sentinel for a missing project, card, vote or
// comment.
var ErrNotFound = errors.New("not found")

type Status string

const (
	StatusIdea       Status = "idea"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// StatusOrder is the left-to-right column order of the board.
var StatusOrder = []Status{StatusIdea, StatusTodo, StatusInProgress, StatusDone}

// IsValid reports whether s is one of the four board columns.
func (s Status) IsValid() bool {
	return s.index() >= 0
}

func (s Status) index() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Direction is a one-column move on the board.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection validates a user-supplied direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionLeft, DirectionRight:
		return d, nil
	default:
		return "", fmt.Errorf("invalid direction: %q (want left or right)", s)
	}
}

// Move returns the adjacent status in the given direction. Moving past either
// end of the board leaves the status unchanged.
func (s Status) Move(d Direction) Status {
	i := s.index()
	if i < 0 {
		return s
	}
	switch d {
	case DirectionLeft:
		if i > 0 {
			return StatusOrder[i-1]
		}
	case DirectionRight:
		if i < len(StatusOrder)-1 {
			return StatusOrder[i+1]
		}
	}
	return s
}

// Promote returns the status a card moves to once its actions have been
// dispatched. Only ideas are promoted; everything else stays where it is.
func (s Status) Promote() (Status, bool) {
	if s == StatusIdea {
		return StatusInProgress, true
	}
	return s, false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Project struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type Card struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ProjectID   string    `json:"project_id"`
	Project     *Project  `json:"project,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Position    float64   `json:"position"`
	CreatedBy   *string   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Votes       int       `json:"votes"`
}

type Vote struct {
	ID            string    `json:"id"`
	CardID        string    `json:"card_id"`
	VoterIdentity string    `json:"voter_identity"`
	CreatedAt     time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCardID returns a random card identifier.
func NewCardID() string {
	return uuid.NewString()
}

// NewVoteID returns a random vote identifier.
func NewVoteID() string {
	return uuid.NewString()
}

// NewCommentID returns a lexicographically sortable comment identifier, so
// comments written within the same clock tick still sort in insertion order.
func NewCommentID() string {
	return ulid.Make().String()
}

// CardUpdate is a partial update; nil fields are left alone.
type CardUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	ProjectID   *string   `json:"project_id,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Position    *float64  `json:"position,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u CardUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.ProjectID == nil &&
		u.Status == nil && u.Priority == nil && u.Position == nil
}

// CardFilter narrows a card listing. Zero values match everything.
type CardFilter struct {
	ProjectID string
	Status    *Status
}
