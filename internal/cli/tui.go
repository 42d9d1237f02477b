package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/placement"
	"github.com/matzehuels/tblock/pkg/scores"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenNameEntry
	screenScores
)

const maxNameLen = 32

var menuItems = []string{"Play", "Leaderboard", "Exit"}

type scoresLoadedMsg struct {
	entries []scores.Entry
	err     error
}

type scoreSavedMsg struct {
	entry scores.Entry
	err   error
}

// =============================================================================
// GameModel - Interactive game
// =============================================================================

// GameModel is the bubbletea model for an interactive game. The store may be
// nil, in which case results are not saved.
type GameModel struct {
	ctx     context.Context
	session *game.Session
	store   scores.Store
	player  string

	screen    screen
	menuIndex int
	cursor    grid.Point
	selected  int
	message   string
	nameInput string
	entries   []scores.Entry
	saved     bool
}

// NewGameModel creates a model that starts on the menu.
func NewGameModel(ctx context.Context, s *game.Session, store scores.Store, player string) GameModel {
	cfg := s.Config()
	return GameModel{
		ctx:     ctx,
		session: s,
		store:   store,
		player:  player,
		cursor:  grid.Point{X: cfg.Width / 2, Y: cfg.Height / 2},
	}
}

func (m GameModel) Init() tea.Cmd {
	return nil
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scoresLoadedMsg:
		if msg.err != nil {
			m.message = "Leaderboard unavailable: " + errors.UserMessage(msg.err)
			return m, nil
		}
		m.entries = msg.entries
		return m, nil
	case scoreSavedMsg:
		if msg.err != nil {
			m.message = "Could not save score: " + errors.UserMessage(msg.err)
			return m, nil
		}
		m.saved = true
		m.message = fmt.Sprintf("Saved %d points for %s", msg.entry.Score, msg.entry.Player)
		m.screen = screenScores
		return m, m.loadScores()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m, m.updateMenu(msg)
		case screenGame:
			return m, m.updateGame(msg)
		case screenNameEntry:
			return m, m.updateNameEntry(msg)
		case screenScores:
			return m, m.updateScores(msg)
		}
	}
	return m, nil
}

func (m GameModel) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenGame:
		return m.viewGame()
	case screenNameEntry:
		return m.viewNameEntry()
	case screenScores:
		return m.viewScores()
	default:
		return ""
	}
}

// =============================================================================
// Screens
// =============================================================================

func (m *GameModel) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		switch m.menuIndex {
		case 0:
			if m.session.Over() {
				m.newGame()
			}
			m.screen = screenGame
		case 1:
			m.screen = screenScores
			return m.loadScores()
		case 2:
			return tea.Quit
		}
	case "q", "esc":
		return tea.Quit
	}
	return nil
}

func (m *GameModel) updateGame(msg tea.KeyMsg) tea.Cmd {
	cfg := m.session.Config()
	switch msg.String() {
	case "left", "h":
		m.cursor.X = max(m.cursor.X-1, 0)
	case "right", "l":
		m.cursor.X = min(m.cursor.X+1, cfg.Width-1)
	case "up", "k":
		m.cursor.Y = max(m.cursor.Y-1, 0)
	case "down", "j":
		m.cursor.Y = min(m.cursor.Y+1, cfg.Height-1)
	case "tab":
		if n := len(m.session.Active()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "r", "x":
		if p := m.current(); p != nil {
			p.Rotate()
		}
	case "s":
		m.spawn()
	case "enter", " ":
		m.commit()
	case "d":
		if p := m.current(); p != nil {
			m.session.Abandon(p)
			m.clampSelection()
			m.message = "Discarded " + p.Kind().String()
			if m.session.Over() {
				m.gameOver()
			}
		}
	case "?":
		m.hint()
	case "n":
		m.newGame()
	case "q", "esc":
		m.screen = screenMenu
	}
	return nil
}

func (m *GameModel) updateNameEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if err := errors.ValidatePlayerName(m.nameInput); err != nil {
			m.message = errors.UserMessage(err)
			return nil
		}
		st := m.session.Stats()
		e := scores.NewEntry(m.nameInput, m.session.Score(), st.Lines, st.Placed)
		e.Seed = m.session.Config().Seed
		return m.saveScore(e)
	case tea.KeyEsc:
		m.screen = screenMenu
	case tea.KeyBackspace:
		if r := []rune(m.nameInput); len(r) > 0 {
			m.nameInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.appendName(" ")
	case tea.KeyRunes:
		m.appendName(string(msg.Runes))
	}
	return nil
}

func (m *GameModel) updateScores(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "enter":
		m.screen = screenMenu
	}
	return nil
}

// =============================================================================
// Game Actions
// =============================================================================

func (m *GameModel) current() *game.Piece {
	active := m.session.Active()
	if m.selected < 0 || m.selected >= len(active) {
		return nil
	}
	return active[m.selected]
}

func (m *GameModel) clampSelection() {
	n := len(m.session.Active())
	if m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m *GameModel) spawn() {
	p, out := m.session.SpawnPiece()
	if p != nil {
		m.selected = len(m.session.Active()) - 1
		m.message = "Spawned " + p.Kind().String()
	}
	switch out {
	case game.SpawnRefused:
		m.message = "No room for another piece"
	case game.GameOver:
		m.gameOver()
	}
}

func (m *GameModel) commit() {
	p := m.current()
	if p == nil {
		m.message = "Spawn a piece first (s)"
		return
	}
	res := m.session.AttemptCommit(p, m.cursor)
	switch res.Outcome {
	case game.Rejected:
		m.message = p.Kind().String() + " does not fit there"
		return
	case game.GameOver:
		m.gameOver()
		return
	}
	m.clampSelection()
	if res.Cleared > 0 {
		m.message = fmt.Sprintf("Cleared %d lines, +%d", res.Cleared, res.Points)
	} else {
		m.message = "Placed " + p.Kind().String()
	}
	if res.GameOver {
		m.gameOver()
	}
}

func (m *GameModel) hint() {
	p := m.current()
	if p == nil {
		m.message = "Spawn a piece first (s)"
		return
	}
	mv, ok := game.BestMove(m.session, p)
	if !ok {
		m.message = p.Kind().String() + " fits nowhere"
		return
	}
	p.SetRotation(mv.Rotation)
	m.cursor = mv.Anchor
	if mv.Cleared > 0 {
		m.message = fmt.Sprintf("Hint: clears %d lines", mv.Cleared)
	} else {
		m.message = "Hint: moved to a legal spot"
	}
}

func (m *GameModel) newGame() {
	m.session.Restart()
	m.selected = 0
	m.saved = false
	m.message = "New game, press s to spawn a piece"
}

func (m *GameModel) gameOver() {
	m.message = fmt.Sprintf("Game over with %d points", m.session.Score())
	if m.store != nil && !m.saved {
		m.screen = screenNameEntry
		m.nameInput = m.player
	}
}

func (m *GameModel) appendName(s string) {
	if len([]rune(m.nameInput))+len([]rune(s)) <= maxNameLen {
		m.nameInput += s
	}
}

func (m *GameModel) loadScores() tea.Cmd {
	if m.store == nil {
		m.message = "Leaderboard disabled"
		return nil
	}
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		entries, err := store.Top(ctx, defaultScoreLimit)
		return scoresLoadedMsg{entries: entries, err: err}
	}
}

func (m *GameModel) saveScore(e scores.Entry) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return scoreSavedMsg{entry: e, err: store.Add(ctx, e)}
	}
}

// =============================================================================
// Views
// =============================================================================

func (m GameModel) viewMenu() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("\n\n")
	for i, item := range menuItems {
		if i == 0 && !m.session.Over() && m.session.Stats().Spawned > 0 {
			item = "Resume"
		}
		if i == m.menuIndex {
			b.WriteString(listSelectedStyle.Render("▸ " + item))
		} else {
			b.WriteString(listNormalStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	return b.String()
}

func (m GameModel) viewGame() string {
	g := m.session.Grid()
	var ov *overlay
	if p := m.current(); p != nil {
		cells := make(map[grid.Point]bool)
		for _, c := range placement.Cells(p.Variant(), m.cursor) {
			cells[c] = true
		}
		style := styleBlocked
		if m.session.Fits(p, m.cursor) {
			style = styleFits
		}
		ov = &overlay{cells: cells, style: style}
	}
	cursor := m.cursor
	board := renderBoard(g, ov, &cursor)

	var side strings.Builder
	side.WriteString(StyleTitle.Render("Score "))
	side.WriteString(StyleNumber.Render(fmt.Sprintf("%d", m.session.Score())))
	side.WriteString("\n\n")
	active := m.session.Active()
	if len(active) == 0 {
		side.WriteString(listDimStyle.Render("no pieces"))
		side.WriteString("\n")
	}
	for i, p := range active {
		marker := "  "
		if i == m.selected {
			marker = listSelectedStyle.Render("▸ ")
		}
		label := p.Kind().String()
		if !m.session.CanPlaceAnywhere(p) {
			label += StyleWarning.Render(" (no fit)")
		}
		side.WriteString(marker + label + "\n")
		side.WriteString(renderVariant(p.Kind(), p.Variant()))
		side.WriteString("\n\n")
	}
	if m.session.Over() {
		side.WriteString(StyleError.Render("GAME OVER"))
		side.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", side.String()))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(m.message)
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("arrows move  r rotate  tab switch  ⏎ place  s spawn  d discard  ? hint  n new  q menu"))
	return b.String()
}

func (m GameModel) viewNameEntry() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Game over"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Score %s\n\n", StyleNumber.Render(fmt.Sprintf("%d", m.session.Score()))))
	b.WriteString("Name: " + StyleValue.Render(m.nameInput) + listDimStyle.Render("_"))
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(m.message)
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("⏎ save  esc skip"))
	return b.String()
}

func (m GameModel) viewScores() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Leaderboard"))
	b.WriteString("\n\n")
	if len(m.entries) == 0 {
		b.WriteString(listDimStyle.Render("No scores yet"))
	} else {
		b.WriteString(renderScores(m.entries))
	}
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(m.message)
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("⏎ back"))
	return b.String()
}
