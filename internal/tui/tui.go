// Package tui provides an interactive kanban board using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/baiirun/board/internal/board"
	"github.com/baiirun/board/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewMode represents the current view state.
type ViewMode int

const (
	ViewBoard ViewMode = iota
	ViewDetail
)

// InputMode represents what kind of text input is active.
type InputMode int

const (
	InputNone    InputMode = iota
	InputCreate            // Entering new card title
	InputComment           // Entering comment text
	InputSearch            // Entering search text
)

// Voter is the identity the TUI votes and comments as.
const Voter = "tui"

// Column headers
var columnTitles = map[model.Status]string{
	model.StatusIdea:       "💡 Ideas",
	model.StatusTodo:       "📋 To Do",
	model.StatusInProgress: "🔨 In Progress",
	model.StatusDone:       "✅ Done",
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	svc      *board.Service
	projects []model.Project
	cards    []model.Card // all cards from the service
	columns  [][]model.Card
	col      int
	row      int
	viewMode ViewMode

	filterSearch string

	inputMode  InputMode
	inputText  string
	inputLabel string

	width   int
	height  int
	err     error
	message string

	// Detail view state
	detailComments []model.Comment
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	statusColors = map[model.Status]lipgloss.Color{
		model.StatusIdea:       lipgloss.Color("141"),
		model.StatusTodo:       lipgloss.Color("252"),
		model.StatusInProgress: lipgloss.Color("214"),
		model.StatusDone:       lipgloss.Color("42"),
	}

	priorityColors = map[model.Priority]lipgloss.Color{
		model.PriorityHigh:   lipgloss.Color("196"),
		model.PriorityMedium: lipgloss.Color("214"),
		model.PriorityLow:    lipgloss.Color("245"),
	}

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	contentPadding = 2
)

// New creates a new TUI model backed by svc.
func New(svc *board.Service) Model {
	return Model{
		svc:      svc,
		viewMode: ViewBoard,
		columns:  make([][]model.Card, len(model.StatusOrder)),
	}
}

// Messages
type cardsMsg struct {
	projects []model.Project
	cards    []model.Card
	err      error
}

type commentsMsg struct {
	comments []model.Comment
	id       string // card the load was for, to ignore stale results
	err      error
}

type actionMsg struct {
	message string
	err     error
}

func (m Model) loadCards() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := m.svc.ListProjects(ctx)
		if err != nil {
			return cardsMsg{err: err}
		}
		cards, err := m.svc.ListCards(ctx, model.CardFilter{})
		return cardsMsg{projects: projects, cards: cards, err: err}
	}
}

func (m Model) loadComments() tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}
	id := card.ID
	return func() tea.Msg {
		comments, err := m.svc.Comments(context.Background(), id)
		return commentsMsg{comments: comments, id: id, err: err}
	}
}

// applyFilters splits cards into columns by status.
func (m *Model) applyFilters() {
	m.columns = make([][]model.Card, len(model.StatusOrder))
	search := strings.ToLower(m.filterSearch)
	for _, card := range m.cards {
		if search != "" && !matchesSearch(card, search) {
			continue
		}
		for i, s := range model.StatusOrder {
			if card.Status == s {
				m.columns[i] = append(m.columns[i], card)
			}
		}
	}
	m.clampCursor()
}

func matchesSearch(card model.Card, search string) bool {
	if strings.Contains(strings.ToLower(card.Title), search) {
		return true
	}
	if card.Description != nil && strings.Contains(strings.ToLower(*card.Description), search) {
		return true
	}
	return card.Project != nil && strings.Contains(strings.ToLower(card.Project.Name), search)
}

func (m *Model) clampCursor() {
	if m.col < 0 {
		m.col = 0
	}
	if m.col >= len(m.columns) {
		m.col = len(m.columns) - 1
	}
	if m.row >= len(m.columns[m.col]) {
		m.row = max(0, len(m.columns[m.col])-1)
	}
}

func (m Model) selected() (model.Card, bool) {
	if m.col >= len(m.columns) || m.row >= len(m.columns[m.col]) {
		return model.Card{}, false
	}
	return m.columns[m.col][m.row], true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadCards()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear message on any key
		m.message = ""
		m.err = nil
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case cardsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.projects = msg.projects
		m.cards = msg.cards
		m.applyFilters()
		return m, nil

	case commentsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if card, ok := m.selected(); ok && card.ID == msg.id {
			m.detailComments = msg.comments
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = msg.message
		}
		if m.viewMode == ViewDetail {
			return m, tea.Batch(m.loadCards(), m.loadComments())
		}
		return m, m.loadCards()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != InputNone {
		return m.handleInputKey(msg)
	}

	switch m.viewMode {
	case ViewBoard:
		return m.handleBoardKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = InputNone
		m.inputText = ""
		return m, nil

	case "enter":
		return m.submitInput()

	case "backspace":
		if len(m.inputText) > 0 {
			r := []rune(m.inputText)
			m.inputText = string(r[:len(r)-1])
		}

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.inputText += string(msg.Runes)
		case tea.KeySpace:
			m.inputText += " "
		}
	}

	// Live filter for search
	if m.inputMode == InputSearch {
		m.filterSearch = m.inputText
		m.applyFilters()
	}
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.inputText)
	mode := m.inputMode
	m.inputMode = InputNone
	m.inputText = ""

	switch mode {
	case InputSearch:
		m.filterSearch = text
		m.applyFilters()
		return m, nil

	case InputCreate:
		if text == "" {
			return m, nil
		}
		projectID := m.defaultProject()
		return m, func() tea.Msg {
			card, err := m.svc.CreateCard(context.Background(), board.CreateCardInput{
				Title:     text,
				ProjectID: projectID,
			})
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{message: fmt.Sprintf("Created %q", card.Title)}
		}

	case InputComment:
		card, ok := m.selected()
		if !ok || text == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			if _, err := m.svc.AddComment(context.Background(), card.ID, Voter, text); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{message: "Comment added"}
		}
	}
	return m, nil
}

// defaultProject is the selected card's project, else the first project.
func (m Model) defaultProject() string {
	if card, ok := m.selected(); ok {
		return card.ProjectID
	}
	if len(m.projects) > 0 {
		return m.projects[0].ID
	}
	return ""
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
	case "right", "l":
		if m.col < len(m.columns)-1 {
			m.col++
			m.clampCursor()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.columns[m.col])-1 {
			m.row++
		}

	case "enter":
		if _, ok := m.selected(); ok {
			m.viewMode = ViewDetail
			m.detailComments = nil
			return m, m.loadComments()
		}

	// Actions
	case "<", "H":
		return m.doMove(model.DirectionLeft)
	case ">", "L":
		return m.doMove(model.DirectionRight)
	case "v":
		return m.doVote()
	case "p":
		return m.doProcess()
	case "D":
		return m.doDelete()
	case "n":
		label := "New card: "
		if id := m.defaultProject(); id != "" {
			label = fmt.Sprintf("New card [%s]: ", m.projectName(id))
		}
		return m.startInput(InputCreate, label)
	case "/":
		return m.startInput(InputSearch, "Search: ")
	case "r":
		return m, m.loadCards()

	case "esc":
		if m.filterSearch != "" {
			m.filterSearch = ""
			m.applyFilters()
		} else {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.viewMode = ViewBoard

	// Actions work in detail view too
	case "<", "H":
		return m.doMove(model.DirectionLeft)
	case ">", "L":
		return m.doMove(model.DirectionRight)
	case "v":
		return m.doVote()
	case "p":
		return m.doProcess()
	case "c":
		return m.startInput(InputComment, "Comment: ")
	case "r":
		return m, m.loadComments()
	}
	return m, nil
}

func (m Model) startInput(mode InputMode, label string) (Model, tea.Cmd) {
	m.inputMode = mode
	m.inputLabel = label
	m.inputText = ""
	return m, nil
}

func (m Model) projectName(id string) string {
	for _, p := range m.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (m Model) doMove(d model.Direction) (Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok {
		return m, nil
	}
	if card.Status.Move(d) == card.Status {
		m.message = fmt.Sprintf("Already in %s", card.Status)
		return m, nil
	}
	// Follow the card into its new column.
	if d == model.DirectionRight {
		m.col++
	} else {
		m.col--
	}
	m.row = len(m.columns[m.col])
	return m, func() tea.Msg {
		moved, err := m.svc.MoveCard(context.Background(), card.ID, d)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("Moved to %s", moved.Status)}
	}
}

func (m Model) doVote() (Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, func() tea.Msg {
		recorded, err := m.svc.Vote(context.Background(), card.ID, Voter)
		if err != nil {
			return actionMsg{err: err}
		}
		if !recorded {
			return actionMsg{message: "Already voted"}
		}
		return actionMsg{message: "Voted 👍"}
	}
}

func (m Model) doProcess() (Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, func() tea.Msg {
		res, err := m.svc.ProcessCard(context.Background(), card.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: res.Message}
	}
}

func (m Model) doDelete() (Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, func() tea.Msg {
		if err := m.svc.DeleteCard(context.Background(), card.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("Deleted %q", card.Title)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.viewMode == ViewDetail {
		b.WriteString(m.detailView())
	} else {
		b.WriteString(m.boardView())
	}

	b.WriteString("\n")
	if m.inputMode != InputNone {
		b.WriteString(inputStyle.Render(m.inputLabel + m.inputText + "█"))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else if m.message != "" {
		b.WriteString(messageStyle.Render(m.message))
	}

	padStyle := lipgloss.NewStyle().
		PaddingLeft(contentPadding).
		PaddingRight(contentPadding).
		PaddingTop(1)
	return padStyle.Render(b.String())
}

func (m Model) columnWidth() int {
	width := m.width - 2*contentPadding
	if width <= 0 {
		width = 100
	}
	return max(16, width/len(model.StatusOrder)-2)
}

func (m Model) boardView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Board (%d cards)", len(m.cards))))
	if m.filterSearch != "" {
		b.WriteString("  " + filterStyle.Render("search:"+m.filterSearch))
	}
	b.WriteString("\n\n")

	width := m.columnWidth()
	rendered := make([]string, len(model.StatusOrder))
	for i, s := range model.StatusOrder {
		rendered[i] = m.renderColumn(i, s, width)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("h/l:column j/k:card  </>:move v:vote p:process n:new D:delete enter:detail"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/:search r:refresh q:quit"))
	return b.String()
}

func (m Model) renderColumn(i int, s model.Status, width int) string {
	border := lipgloss.Color("241")
	if i == m.col {
		border = lipgloss.Color("39")
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		MarginRight(1)

	header := lipgloss.NewStyle().Bold(true).Foreground(statusColors[s]).
		Render(fmt.Sprintf("%s (%d)", columnTitles[s], len(m.columns[i])))

	lines := []string{header, ""}
	for j, card := range m.columns[i] {
		line := m.formatCardLine(card, width)
		if i == m.col && j == m.row {
			line = selectedStyle.Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	if len(m.columns[i]) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) formatCardLine(card model.Card, width int) string {
	dot := lipgloss.NewStyle().Foreground(priorityColors[card.Priority]).Render("●")
	votes := ""
	if card.Votes > 0 {
		votes = fmt.Sprintf(" 👍%d", card.Votes)
	}
	title := truncate(card.Title, width-3-lipgloss.Width(votes))
	return dot + " " + title + votes
}

func (m Model) detailView() string {
	card, ok := m.selected()
	if !ok {
		return "No card selected"
	}

	var lines []string
	color := statusColors[card.Status]
	lines = append(lines, lipgloss.NewStyle().Foreground(color).Render("●")+" "+titleStyle.Render(card.Title))
	lines = append(lines, "")

	project := card.ProjectID
	if card.Project != nil {
		project = strings.TrimSpace(card.Project.Icon + " " + card.Project.Name)
	}
	lines = append(lines, detailLabelStyle.Render("ID:       ")+card.ID)
	lines = append(lines, detailLabelStyle.Render("Project:  ")+project)
	lines = append(lines, detailLabelStyle.Render("Status:   ")+lipgloss.NewStyle().Foreground(color).Render(string(card.Status)))
	lines = append(lines, detailLabelStyle.Render("Priority: ")+lipgloss.NewStyle().Foreground(priorityColors[card.Priority]).Render(string(card.Priority)))
	lines = append(lines, detailLabelStyle.Render("Votes:    ")+fmt.Sprintf("%d", card.Votes))
	lines = append(lines, detailLabelStyle.Render("Created:  ")+dimStyle.Render(card.CreatedAt.Local().Format("2006-01-02 15:04")))

	if card.Description != nil && *card.Description != "" {
		lines = append(lines, "")
		lines = append(lines, detailLabelStyle.Render("Description:"))
		lines = append(lines, strings.Split(*card.Description, "\n")...)
	}

	if len(m.detailComments) > 0 {
		lines = append(lines, "")
		lines = append(lines, detailLabelStyle.Render("Comments:"))
		for _, c := range m.detailComments {
			ts := dimStyle.Render(c.CreatedAt.Local().Format("2006-01-02 15:04"))
			lines = append(lines, "  "+ts+" "+detailLabelStyle.Render(c.Author+":")+" "+c.Content)
		}
	}

	lines = append(lines, "")
	lines = append(lines, helpStyle.Render("esc:back  </>:move v:vote p:process c:comment r:refresh q:quit"))
	return strings.Join(lines, "\n")
}

// truncate shortens s to limit display cells, adding an ellipsis.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Run starts the TUI.
func Run(svc *board.Service) error {
	m := New(svc)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
