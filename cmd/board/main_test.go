package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baiirun/board/internal/model"
)

type testBoard struct {
	t      *testing.T
	dbPath string
	config string
}

func setupTestBoard(t *testing.T) *testBoard {
	t.Helper()
	dir := t.TempDir()
	return &testBoard{
		t:      t,
		dbPath: filepath.Join(dir, "board.db"),
		config: filepath.Join(dir, "config.yaml"),
	}
}

// run executes one CLI invocation against the test database.
func (b *testBoard) run(args ...string) (string, error) {
	b.t.Helper()
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--db", b.dbPath, "--config", b.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func (b *testBoard) mustRun(args ...string) string {
	b.t.Helper()
	out, err := b.run(args...)
	if err != nil {
		b.t.Fatalf("board %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (b *testBoard) addCard(title string, extra ...string) model.Card {
	b.t.Helper()
	out := b.mustRun(append([]string{"add", title, "--json"}, extra...)...)
	var card model.Card
	if err := json.Unmarshal([]byte(out), &card); err != nil {
		b.t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	return card
}

func TestInit(t *testing.T) {
	b := setupTestBoard(t)

	out := b.mustRun("init")
	if !strings.Contains(out, "5 projects") {
		t.Errorf("unexpected output: %q", out)
	}
	// Second init is a no-op
	b.mustRun("init")
}

func TestProjectsJSON(t *testing.T) {
	b := setupTestBoard(t)

	var projects []model.Project
	if err := json.Unmarshal([]byte(b.mustRun("projects", "--json")), &projects); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(projects) != 5 || projects[4].Slug != "general" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestAddAndList(t *testing.T) {
	b := setupTestBoard(t)

	card := b.addCard("Add Amazon Movers API", "--project", "1", "--priority", "high", "-d", "real product data")
	if card.Status != model.StatusIdea || card.Priority != model.PriorityHigh {
		t.Errorf("card = %+v", card)
	}
	if card.Description == nil || *card.Description != "real product data" {
		t.Errorf("description = %v", card.Description)
	}
	b.addCard("Write launch blog post")

	out := b.mustRun("list")
	if !strings.Contains(out, "Add Amazon Movers API") || !strings.Contains(out, "Write launch blog post") {
		t.Errorf("list output missing cards: %q", out)
	}

	var cards []model.Card
	if err := json.Unmarshal([]byte(b.mustRun("list", "--json", "--project", "1")), &cards); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != card.ID {
		t.Errorf("filtered cards = %+v", cards)
	}
}

func TestListJSON_Empty(t *testing.T) {
	b := setupTestBoard(t)

	out := b.mustRun("list", "--json")
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty array, got %q", out)
	}
}

func TestAdd_Validation(t *testing.T) {
	b := setupTestBoard(t)

	if _, err := b.run("add", "x", "--priority", "urgent"); err == nil {
		t.Error("expected error for invalid priority")
	}
	if _, err := b.run("add", "x", "--project", "42"); err == nil {
		t.Error("expected error for unknown project")
	}
	if _, err := b.run("add", "   "); err == nil {
		t.Error("expected error for blank title")
	}
}

func TestUpdateAndShow(t *testing.T) {
	b := setupTestBoard(t)
	card := b.addCard("Old title")

	b.mustRun("update", card.ID, "--title", "New title", "--status", "done")

	var detail struct {
		model.Card
		Comments []model.Comment `json:"comments"`
	}
	if err := json.Unmarshal([]byte(b.mustRun("show", card.ID, "--json")), &detail); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if detail.Title != "New title" || detail.Status != model.StatusDone {
		t.Errorf("detail = %+v", detail.Card)
	}
	if detail.Comments == nil {
		t.Error("expected comments array, got null")
	}

	if _, err := b.run("update", card.ID); err == nil {
		t.Error("expected error when no fields are given")
	}
	if _, err := b.run("show", "missing"); err == nil {
		t.Error("expected error for unknown card")
	}
}

func TestMove(t *testing.T) {
	b := setupTestBoard(t)
	card := b.addCard("Walk")

	out := b.mustRun("move", card.ID, "right")
	if !strings.Contains(out, "is now todo") {
		t.Errorf("unexpected output: %q", out)
	}
	b.mustRun("move", card.ID, "left")
	out = b.mustRun("move", card.ID, "left")
	if !strings.Contains(out, "is now idea") {
		t.Errorf("expected clamp at idea, got %q", out)
	}
	if _, err := b.run("move", card.ID, "up"); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestVoteAndComments(t *testing.T) {
	b := setupTestBoard(t)
	card := b.addCard("Popular")

	out := b.mustRun("vote", card.ID, "--as", "ana")
	if !strings.Contains(out, "Voted") {
		t.Errorf("unexpected output: %q", out)
	}
	out = b.mustRun("vote", card.ID, "--as", "ana")
	if !strings.Contains(out, "Already voted") || !strings.Contains(out, "(1 votes)") {
		t.Errorf("unexpected output: %q", out)
	}

	b.mustRun("comment", card.ID, "first", "thought", "--author", "ana")
	b.mustRun("comment", card.ID, "second", "--author", "ben")

	var comments []model.Comment
	if err := json.Unmarshal([]byte(b.mustRun("comments", card.ID, "--json")), &comments); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "first thought" || comments[1].Author != "ben" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestProcessJSON(t *testing.T) {
	b := setupTestBoard(t)
	card := b.addCard("Research competitor pricing")

	var res ProcessJSON
	if err := json.Unmarshal([]byte(b.mustRun("process", card.ID, "--json")), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !res.Success || !res.Promoted {
		t.Errorf("result = %+v", res)
	}
	if len(res.Matched) != 1 || res.Matched[0] != "research" {
		t.Errorf("matched = %v", res.Matched)
	}
	if res.Card.Status != model.StatusInProgress {
		t.Errorf("status = %q, want in-progress", res.Card.Status)
	}
}

func TestProcess_PostWithoutCredentials(t *testing.T) {
	t.Setenv("X_API_KEY", "")
	t.Setenv("X_ACCESS_TOKEN", "")
	t.Setenv("BLUESKY_PASSWORD", "")

	b := setupTestBoard(t)
	card := b.addCard("Post about launching our new AI feature")

	out := b.mustRun("process", card.ID)
	if !strings.Contains(out, "X posting failed: credentials not configured") ||
		!strings.Contains(out, "Bluesky posting failed: credentials not configured") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestExecJSON(t *testing.T) {
	b := setupTestBoard(t)

	var res ExecJSON
	if err := json.Unmarshal([]byte(b.mustRun("exec", "Deploy", "the", "landing", "page", "--json")), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Category != "deploy" || !strings.Contains(res.Result, "the landing page") {
		t.Errorf("result = %+v", res)
	}
}

func TestStatusJSON(t *testing.T) {
	b := setupTestBoard(t)
	card := b.addCard("Popular")
	b.addCard("Shipped", "--status", "done")
	b.mustRun("vote", card.ID, "--as", "ana")

	var st StatusJSON
	if err := json.Unmarshal([]byte(b.mustRun("status", "--json")), &st); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if st.Total != 2 || st.Counts["idea"] != 1 || st.Counts["done"] != 1 {
		t.Errorf("status = %+v", st)
	}
	if len(st.TopVoted) == 0 || st.TopVoted[0].ID != card.ID {
		t.Errorf("top voted = %+v", st.TopVoted)
	}

	if _, err := b.run("status", "--project", "42"); err == nil {
		t.Error("expected error for unknown project")
	}
}

func TestDeleteAndClear(t *testing.T) {
	b := setupTestBoard(t)
	card := b.addCard("Doomed")
	b.addCard("Also doomed")

	b.mustRun("delete", card.ID)
	if _, err := b.run("delete", card.ID); err == nil {
		t.Error("expected error deleting twice")
	}

	if _, err := b.run("clear"); err == nil {
		t.Error("expected clear to require --yes")
	}
	b.mustRun("clear", "--yes")
	if out := b.mustRun("list"); !strings.Contains(out, "No cards") {
		t.Errorf("expected empty board, got %q", out)
	}
}
