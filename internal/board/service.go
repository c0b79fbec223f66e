// Package board holds the card service: the lifecycle rules, the vote and
// comment ledger, and the orchestration that runs a card's title through the
// action router.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baiirun/board/internal/action"
	"github.com/baiirun/board/internal/model"
	"go.uber.org/zap"
)

// AnonymousVoter is recorded when a vote arrives without an identity.
const AnonymousVoter = "anonymous"

// Store is the persistence the service needs. *db.DB satisfies it.
type Store interface {
	ListProjects() ([]model.Project, error)
	GetProject(id string) (*model.Project, error)
	ListCards(f model.CardFilter) ([]model.Card, error)
	GetCard(id string) (*model.Card, error)
	CreateCard(card *model.Card) error
	UpdateCard(id string, u model.CardUpdate) error
	UpdateStatus(id string, status model.Status) error
	DeleteCard(id string) error
	DeleteAllCards() error
	AddVote(cardID, voter string) (bool, error)
	VoteCount(cardID string) (int, error)
	AddComment(cardID, author, content string) (*model.Comment, error)
	GetComments(cardID string) ([]model.Comment, error)
}

// Notifier receives a ChangeEvent after every successful mutation.
type Notifier interface {
	Notify(ctx context.Context, ev model.ChangeEvent) error
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, model.ChangeEvent) error { return nil }

// Service implements the board operations on top of a Store.
type Service struct {
	store    Store
	router   *action.Router
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires a service. A nil router gets one with no credentials.
func NewService(store Store, router *action.Router, opts ...Option) *Service {
	if router == nil {
		router = action.NewRouter(action.Credentials{})
	}
	s := &Service{
		store:    store,
		router:   router,
		notifier: NopNotifier{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.store.ListProjects()
}

// ListCards returns cards in board order with their project attached.
func (s *Service) ListCards(ctx context.Context, f model.CardFilter) ([]model.Card, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, invalid("status", *f.Status)
	}
	return s.store.ListCards(f)
}

func (s *Service) GetCard(ctx context.Context, id string) (*model.Card, error) {
	if id == "" {
		return nil, required("id")
	}
	return s.store.GetCard(id)
}

// CreateCardInput carries the fields a caller may set on a new card.
// Status and Priority default to idea and medium.
type CreateCardInput struct {
	Title       string
	Description *string
	ProjectID   string
	Priority    model.Priority
	Status      model.Status
	CreatedBy   *string
}

// CreateCard validates in and appends a new card to the board.
func (s *Service) CreateCard(ctx context.Context, in CreateCardInput) (*model.Card, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, required("title")
	}
	if in.ProjectID == "" {
		return nil, required("project_id")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, invalid("priority", in.Priority)
	}
	if in.Status == "" {
		in.Status = model.StatusIdea
	}
	if !in.Status.IsValid() {
		return nil, invalid("status", in.Status)
	}
	if _, err := s.store.GetProject(in.ProjectID); err != nil {
		return nil, err
	}

	card := &model.Card{
		ID:          model.NewCardID(),
		Title:       title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.store.CreateCard(card); err != nil {
		return nil, err
	}

	created, err := s.store.GetCard(card.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("card created", zap.String("card_id", created.ID), zap.String("project_id", created.ProjectID))
	s.notify(ctx, model.ChangeCreated, created.ID, created.Status)
	return created, nil
}

// UpdateCard applies a partial update. Any valid status may be set directly.
func (s *Service) UpdateCard(ctx context.Context, id string, u model.CardUpdate) error {
	if id == "" {
		return required("id")
	}
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		if t == "" {
			return required("title")
		}
		u.Title = &t
	}
	if u.Status != nil && !u.Status.IsValid() {
		return invalid("status", *u.Status)
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		return invalid("priority", *u.Priority)
	}
	if u.ProjectID != nil && *u.ProjectID == "" {
		return required("project_id")
	}

	if err := s.store.UpdateCard(id, u); err != nil {
		return err
	}

	var status model.Status
	if u.Status != nil {
		status = *u.Status
	}
	s.notify(ctx, model.ChangeUpdated, id, status)
	return nil
}

// MoveCard shifts a card one column in direction d. Moves past either end
// of the board leave the card where it is.
func (s *Service) MoveCard(ctx context.Context, id string, d model.Direction) (*model.Card, error) {
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	next := card.Status.Move(d)
	if next == card.Status {
		return card, nil
	}
	if err := s.store.UpdateStatus(card.ID, next); err != nil {
		return nil, err
	}
	card.Status = next
	card.UpdatedAt = s.now().UTC()

	s.notify(ctx, model.ChangeUpdated, card.ID, next)
	return card, nil
}

func (s *Service) DeleteCard(ctx context.Context, id string) error {
	if id == "" {
		return required("id")
	}
	if err := s.store.DeleteCard(id); err != nil {
		return err
	}
	s.logger.Info("card deleted", zap.String("card_id", id))
	s.notify(ctx, model.ChangeDeleted, id, "")
	return nil
}

// DeleteAllCards clears the board, including every vote and comment.
func (s *Service) DeleteAllCards(ctx context.Context) error {
	if err := s.store.DeleteAllCards(); err != nil {
		return err
	}
	s.logger.Info("board cleared")
	s.notify(ctx, model.ChangeCleared, "", "")
	return nil
}

// Vote records voter's vote on a card. A repeat vote from the same voter is
// accepted and reported as not recorded.
func (s *Service) Vote(ctx context.Context, cardID, voter string) (bool, error) {
	if cardID == "" {
		return false, required("card_id")
	}
	voter = strings.TrimSpace(voter)
	if voter == "" {
		voter = AnonymousVoter
	}

	recorded, err := s.store.AddVote(cardID, voter)
	if err != nil {
		return false, err
	}
	if recorded {
		VotesTotal.WithLabelValues("recorded").Inc()
		s.notify(ctx, model.ChangeUpdated, cardID, "")
	} else {
		VotesTotal.WithLabelValues("duplicate").Inc()
	}
	return recorded, nil
}

func (s *Service) VoteCount(ctx context.Context, cardID string) (int, error) {
	if cardID == "" {
		return 0, required("card_id")
	}
	return s.store.VoteCount(cardID)
}

// AddComment appends a comment. Both author and content are required.
func (s *Service) AddComment(ctx context.Context, cardID, author, content string) (*model.Comment, error) {
	if cardID == "" {
		return nil, required("card_id")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, required("author")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, required("content")
	}

	c, err := s.store.AddComment(cardID, author, content)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, model.ChangeUpdated, cardID, "")
	return c, nil
}

// Comments returns a card's comments, oldest first.
func (s *Service) Comments(ctx context.Context, cardID string) ([]model.Comment, error) {
	if cardID == "" {
		return nil, required("card_id")
	}
	return s.store.GetComments(cardID)
}

// ProcessResult is the outcome of ProcessCard.
type ProcessResult struct {
	Card     *model.Card
	Matched  []action.Category
	Executed []string
	Errors   []string
	Success  bool
	Message  string
	Promoted bool
}

// ProcessCard runs the card's title through every matching action and
// promotes an idea card to in-progress. Promotion happens even when some
// actions report errors.
func (s *Service) ProcessCard(ctx context.Context, cardID string) (*ProcessResult, error) {
	if cardID == "" {
		return nil, required("card_id")
	}
	card, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card.ID == "" || strings.TrimSpace(card.Title) == "" {
		return nil, fmt.Errorf("%w: card %s has no title", ErrInvalidCard, cardID)
	}

	res, err := s.router.Dispatch(ctx, card.Title)
	if err != nil {
		if errors.Is(err, action.ErrEmptyTitle) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
		}
		return nil, err
	}

	promoted := false
	if next, ok := card.Status.Promote(); ok {
		if err := s.store.UpdateStatus(card.ID, next); err != nil {
			return nil, fmt.Errorf("failed to promote card: %w", err)
		}
		card.Status = next
		card.UpdatedAt = s.now().UTC()
		promoted = true
		AutoPromotions.Inc()
	}

	recordActions(res)
	s.logger.Info("card processed",
		zap.String("card_id", card.ID),
		zap.Int("executed", len(res.Executed)),
		zap.Int("errors", len(res.Errors)),
		zap.Bool("promoted", promoted),
	)
	s.notify(ctx, model.ChangeProcessed, card.ID, card.Status)

	return &ProcessResult{
		Card:     card,
		Matched:  res.Matched,
		Executed: res.Executed,
		Errors:   res.Errors,
		Success:  res.Success(),
		Message:  Summarize(res),
		Promoted: promoted,
	}, nil
}

// ExecuteTask runs only the first matching action for a free-text task.
func (s *Service) ExecuteTask(ctx context.Context, task string) (action.Execution, error) {
	exec, err := s.router.Execute(task)
	if errors.Is(err, action.ErrEmptyTitle) {
		return action.Execution{}, required("task")
	}
	if err != nil {
		return action.Execution{}, err
	}
	result := "executed"
	if len(exec.Errors) > 0 {
		result = "failed"
	}
	ActionsTotal.WithLabelValues(exec.Category.String(), result).Inc()
	return exec, nil
}

// Summarize renders a dispatch result as the message shown to the user.
func Summarize(res action.Result) string {
	var b strings.Builder
	switch {
	case res.DefaultOnly() && len(res.Executed) > 0:
		b.WriteString("📝 Task noted. No automatic actions available for this type.\n\n")
		b.WriteString(res.Executed[0])
	case len(res.Executed) > 0:
		fmt.Fprintf(&b, "✅ Successfully executed %d action(s):\n\n", len(res.Executed))
		b.WriteString(strings.Join(res.Executed, "\n"))
	default:
		fmt.Fprintf(&b, "⚠️ Matched %d action(s) but none completed.", len(res.Matched))
	}
	if len(res.Errors) > 0 {
		b.WriteString("\n\n⚠️ Warnings:\n")
		b.WriteString(strings.Join(res.Errors, "\n"))
	}
	return b.String()
}

func recordActions(res action.Result) {
	failed := map[action.Category]bool{}
	for _, c := range res.Failed {
		failed[c] = true
	}
	for _, c := range res.Matched {
		result := "executed"
		if failed[c] {
			result = "failed"
		}
		ActionsTotal.WithLabelValues(c.String(), result).Inc()
	}

	outcome := "success"
	switch {
	case res.DefaultOnly():
		outcome = "default"
	case !res.Success():
		outcome = "warnings"
	}
	CardsProcessed.WithLabelValues(outcome).Inc()
}

func (s *Service) notify(ctx context.Context, typ model.ChangeType, cardID string, status model.Status) {
	ev := model.ChangeEvent{Type: typ, CardID: cardID, Status: status, Timestamp: s.now().UTC()}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.Warn("failed to publish change", zap.String("type", string(typ)), zap.Error(err))
	}
}
