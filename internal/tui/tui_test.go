package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baiirun/board/internal/board"
	"github.com/baiirun/board/internal/db"
	"github.com/baiirun/board/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

func setupTestService(t *testing.T) *board.Service {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return board.NewService(store, nil)
}

func addCard(t *testing.T, svc *board.Service, title string, status model.Status) *model.Card {
	t.Helper()
	card, err := svc.CreateCard(context.Background(), board.CreateCardInput{Title: title, ProjectID: "1", Status: status})
	if err != nil {
		t.Fatalf("failed to create card: %v", err)
	}
	return card
}

// run feeds msg to m and then executes any returned command chain until it
// produces no further model messages.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			return m
		}
		msg = cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return m
		}
		if _, ok := msg.(tea.BatchMsg); ok {
			return m
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, svc *board.Service) Model {
	t.Helper()
	m := New(svc)
	return run(t, m, m.Init()())
}

func TestLoad_SplitsColumns(t *testing.T) {
	svc := setupTestService(t)
	addCard(t, svc, "Idea one", model.StatusIdea)
	addCard(t, svc, "Idea two", model.StatusIdea)
	addCard(t, svc, "Shipped", model.StatusDone)

	m := loaded(t, svc)

	if len(m.projects) != 5 {
		t.Errorf("projects = %d, want 5", len(m.projects))
	}
	if len(m.columns[0]) != 2 || len(m.columns[3]) != 1 {
		t.Errorf("column sizes = %d/%d/%d/%d", len(m.columns[0]), len(m.columns[1]), len(m.columns[2]), len(m.columns[3]))
	}
	if !strings.Contains(m.View(), "Idea one") {
		t.Error("expected board view to list cards")
	}
}

func TestNavigation(t *testing.T) {
	svc := setupTestService(t)
	addCard(t, svc, "A", model.StatusIdea)
	addCard(t, svc, "B", model.StatusIdea)
	addCard(t, svc, "C", model.StatusDone)

	m := loaded(t, svc)
	m = run(t, m, key("j"))
	if card, _ := m.selected(); card.Title != "B" {
		t.Errorf("selected = %q, want B", card.Title)
	}
	m = run(t, m, key("j"))
	if m.row != 1 {
		t.Errorf("row = %d, want clamp at 1", m.row)
	}

	for i := 0; i < 5; i++ {
		m = run(t, m, key("l"))
	}
	if m.col != 3 {
		t.Errorf("col = %d, want 3", m.col)
	}
	if card, _ := m.selected(); card.Title != "C" {
		t.Errorf("selected = %q, want C", card.Title)
	}
}

func TestMoveCard(t *testing.T) {
	svc := setupTestService(t)
	card := addCard(t, svc, "Walk", model.StatusIdea)

	m := loaded(t, svc)
	m = run(t, m, key(">"))

	got, err := svc.GetCard(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("failed to get card: %v", err)
	}
	if got.Status != model.StatusTodo {
		t.Errorf("status = %q, want todo", got.Status)
	}
	if m.col != 1 {
		t.Errorf("cursor col = %d, want 1", m.col)
	}
	if sel, ok := m.selected(); !ok || sel.ID != card.ID {
		t.Error("expected cursor to follow the moved card")
	}

	m = run(t, m, key("<"))
	m = run(t, m, key("<"))
	if m.message != "Already in idea" {
		t.Errorf("message = %q", m.message)
	}
}

func TestVoteAndProcess(t *testing.T) {
	svc := setupTestService(t)
	card := addCard(t, svc, "Research competitor pricing", model.StatusIdea)

	m := loaded(t, svc)
	m = run(t, m, key("v"))
	if m.message != "Voted 👍" {
		t.Errorf("message = %q", m.message)
	}
	m = run(t, m, key("v"))
	if m.message != "Already voted" {
		t.Errorf("message = %q", m.message)
	}

	m = run(t, m, key("p"))
	if !strings.HasPrefix(m.message, "✅ Successfully executed 1 action(s)") {
		t.Errorf("message = %q", m.message)
	}
	if len(m.columns[2]) != 1 || m.columns[2][0].ID != card.ID {
		t.Error("expected processed card in the in-progress column")
	}
}

func TestCreateCard(t *testing.T) {
	svc := setupTestService(t)
	m := loaded(t, svc)

	m = run(t, m, key("n"))
	if m.inputMode != InputCreate {
		t.Fatalf("input mode = %v, want create", m.inputMode)
	}
	m = run(t, m, key("Write"))
	m = run(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = run(t, m, key("docs"))
	m = run(t, m, key("enter"))

	if len(m.cards) != 1 || m.cards[0].Title != "Write docs" {
		t.Fatalf("cards = %+v", m.cards)
	}
	if m.cards[0].ProjectID != "1" {
		t.Errorf("project = %q, want first project", m.cards[0].ProjectID)
	}
}

func TestSearchFilter(t *testing.T) {
	svc := setupTestService(t)
	addCard(t, svc, "Alpha", model.StatusIdea)
	addCard(t, svc, "Beta", model.StatusIdea)

	m := loaded(t, svc)
	m = run(t, m, key("/"))
	m = run(t, m, key("bet"))
	if len(m.columns[0]) != 1 || m.columns[0][0].Title != "Beta" {
		t.Errorf("filtered = %+v", m.columns[0])
	}

	m = run(t, m, key("enter"))
	m = run(t, m, key("esc"))
	if len(m.columns[0]) != 2 {
		t.Errorf("expected filter cleared, got %d cards", len(m.columns[0]))
	}
}

func TestDetailComments(t *testing.T) {
	svc := setupTestService(t)
	addCard(t, svc, "Discuss", model.StatusIdea)

	m := loaded(t, svc)
	m = run(t, m, key("enter"))
	if m.viewMode != ViewDetail {
		t.Fatal("expected detail view")
	}

	m = run(t, m, key("c"))
	m = run(t, m, key("ship"))
	m = run(t, m, key("enter"))
	// Detail actions batch a card and comment reload.
	m = run(t, m, m.loadComments()())

	if len(m.detailComments) != 1 || m.detailComments[0].Author != Voter {
		t.Fatalf("comments = %+v", m.detailComments)
	}
	if !strings.Contains(m.View(), "ship") {
		t.Error("expected comment in detail view")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
