package db

import (
	"testing"

	"github.com/baiirun/board/internal/model"
)

func TestListCards_Filters(t *testing.T) {
	db := setupTestDB(t)

	a := newCard(t, db, "A", model.StatusIdea)
	b := newCard(t, db, "B", model.StatusDone)
	c := &model.Card{ID: model.NewCardID(), Title: "C", ProjectID: "3", Status: model.StatusIdea, Priority: model.PriorityLow}
	if err := db.CreateCard(c); err != nil {
		t.Fatalf("failed to create card: %v", err)
	}

	all, err := db.ListCards(model.CardFilter{})
	if err != nil {
		t.Fatalf("failed to list cards: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(all))
	}
	// Board order follows position
	if all[0].ID != a.ID || all[1].ID != b.ID || all[2].ID != c.ID {
		t.Errorf("unexpected order: %s, %s, %s", all[0].Title, all[1].Title, all[2].Title)
	}
	for _, card := range all {
		if card.Project == nil || card.Project.ID != card.ProjectID {
			t.Errorf("card %s missing project", card.Title)
		}
	}

	idea := model.StatusIdea
	ideas, _ := db.ListCards(model.CardFilter{Status: &idea})
	if len(ideas) != 2 {
		t.Errorf("expected 2 ideas, got %d", len(ideas))
	}

	byProject, _ := db.ListCards(model.CardFilter{ProjectID: "3"})
	if len(byProject) != 1 || byProject[0].ID != c.ID {
		t.Errorf("project filter returned %d cards", len(byProject))
	}

	bad := model.Status("nope")
	if _, err := db.ListCards(model.CardFilter{Status: &bad}); err == nil {
		t.Error("expected error for invalid status filter")
	}
}

func TestListCards_PositionUpdateReorders(t *testing.T) {
	db := setupTestDB(t)

	a := newCard(t, db, "A", model.StatusTodo)
	b := newCard(t, db, "B", model.StatusTodo)

	pos := -1.0
	if err := db.UpdateCard(b.ID, model.CardUpdate{Position: &pos}); err != nil {
		t.Fatalf("failed to move card: %v", err)
	}

	cards, _ := db.ListCards(model.CardFilter{})
	if cards[0].ID != b.ID || cards[1].ID != a.ID {
		t.Error("expected B before A after reposition")
	}
}

func TestBoardStatus(t *testing.T) {
	db := setupTestDB(t)

	popular := newCard(t, db, "Popular", model.StatusTodo)
	newCard(t, db, "Quiet", model.StatusIdea)
	newCard(t, db, "Shipped", model.StatusDone)
	newCard(t, db, "Working", model.StatusInProgress)

	for _, voter := range []string{"a", "b", "c"} {
		if _, err := db.AddVote(popular.ID, voter); err != nil {
			t.Fatalf("failed to vote: %v", err)
		}
	}

	report, err := db.BoardStatus("")
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}

	if report.Total != 4 {
		t.Errorf("total = %d, want 4", report.Total)
	}
	for _, s := range model.StatusOrder {
		if report.Counts[s] != 1 {
			t.Errorf("count[%s] = %d, want 1", s, report.Counts[s])
		}
	}
	if len(report.TopVoted) == 0 || report.TopVoted[0].ID != popular.ID {
		t.Error("expected most voted card first")
	}
	if report.TopVoted[0].Votes != 3 {
		t.Errorf("top votes = %d, want 3", report.TopVoted[0].Votes)
	}
	if len(report.RecentDone) != 1 || report.RecentDone[0].Title != "Shipped" {
		t.Errorf("recent done = %+v", report.RecentDone)
	}
}

func TestBoardStatus_Project(t *testing.T) {
	db := setupTestDB(t)
	newCard(t, db, "In project 1", model.StatusIdea)

	report, err := db.BoardStatus("2")
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}
	if report.Total != 0 {
		t.Errorf("total = %d, want 0", report.Total)
	}
	if report.Counts[model.StatusIdea] != 0 {
		t.Errorf("idea count = %d, want 0", report.Counts[model.StatusIdea])
	}
}
