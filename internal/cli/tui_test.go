package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/scores"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m and returns the model and the last command.
func press(t *testing.T, m GameModel, keys ...string) (GameModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(GameModel)
	}
	return m, cmd
}

func newTestModel(t *testing.T, store scores.Store, opts ...game.Option) GameModel {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 42
	s, err := game.New(cfg, opts...)
	if err != nil {
		t.Fatalf("game.New() error: %v", err)
	}
	return NewGameModel(context.Background(), s, store, "ada")
}

func fullBoard(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(strings.Repeat("#########\n", grid.Size))
	if err != nil {
		t.Fatalf("grid.Parse() error: %v", err)
	}
	return g
}

func TestMenuNavigation(t *testing.T) {
	m := newTestModel(t, nil)
	if m.screen != screenMenu {
		t.Fatalf("initial screen = %v, want menu", m.screen)
	}

	m, _ = press(t, m, "down", "down", "down")
	if m.menuIndex != len(menuItems)-1 {
		t.Errorf("menuIndex = %d, want %d", m.menuIndex, len(menuItems)-1)
	}
	_, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Error("Exit should return a quit command")
	}

	m, _ = press(t, newTestModel(t, nil), "enter")
	if m.screen != screenGame {
		t.Errorf("screen = %v, want game", m.screen)
	}
}

func TestSpawnAndPlace(t *testing.T) {
	m, _ := press(t, newTestModel(t, nil), "enter", "s")
	if n := len(m.session.Active()); n != 1 {
		t.Fatalf("active pieces = %d, want 1", n)
	}

	keys := make([]string, 0, 2*grid.Size)
	for range grid.Size {
		keys = append(keys, "left", "up")
	}
	m, _ = press(t, m, keys...)
	if m.cursor != (grid.Point{}) {
		t.Fatalf("cursor = %v, want origin", m.cursor)
	}

	m, _ = press(t, m, "enter")
	if got := m.session.Stats().Placed; got != 1 {
		t.Errorf("placed = %d, want 1", got)
	}
	if n := len(m.session.Active()); n != 0 {
		t.Errorf("active pieces = %d, want 0", n)
	}
	if !strings.Contains(m.message, "Placed") {
		t.Errorf("message = %q, want placement confirmation", m.message)
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	m, _ := press(t, newTestModel(t, nil), "enter")
	keys := make([]string, 0, 2*grid.Size)
	for range 2 * grid.Size {
		keys = append(keys, "right", "down")
	}
	m, _ = press(t, m, keys...)
	want := grid.Point{X: grid.Size - 1, Y: grid.Size - 1}
	if m.cursor != want {
		t.Errorf("cursor = %v, want %v", m.cursor, want)
	}
}

func TestSpawnLimitAndSelection(t *testing.T) {
	m, _ := press(t, newTestModel(t, nil), "enter", "s", "s")
	if m.selected != 1 {
		t.Errorf("selected = %d, want newest piece", m.selected)
	}

	m, _ = press(t, m, "s")
	if !strings.Contains(m.message, "No room") {
		t.Errorf("message = %q, want spawn refusal", m.message)
	}

	m, _ = press(t, m, "tab")
	if m.selected != 0 {
		t.Errorf("selected after tab = %d, want 0", m.selected)
	}

	p := m.current()
	m, _ = press(t, m, "r")
	if want := 1 % p.Kind().RotationCount(); p.Rotation() != want {
		t.Errorf("rotation = %d, want %d", p.Rotation(), want)
	}

	m, _ = press(t, m, "d")
	if n := len(m.session.Active()); n != 1 {
		t.Errorf("active after discard = %d, want 1", n)
	}
}

func TestHintMovesCursor(t *testing.T) {
	m, _ := press(t, newTestModel(t, nil), "enter", "s", "?")
	if m.cursor != (grid.Point{}) {
		t.Errorf("cursor = %v, want the first legal anchor", m.cursor)
	}
	if m.current().Rotation() != 0 {
		t.Errorf("rotation = %d, want 0", m.current().Rotation())
	}
}

func TestGameOverSavesScore(t *testing.T) {
	store := scores.NewMemoryStore()
	m, _ := press(t, newTestModel(t, store, game.WithGrid(fullBoard(t))), "enter", "s")
	if m.screen != screenNameEntry {
		t.Fatalf("screen = %v, want name entry", m.screen)
	}
	if m.nameInput != "ada" {
		t.Errorf("nameInput = %q, want suggested player", m.nameInput)
	}

	m, _ = press(t, m, "backspace", "a")
	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("enter should return a save command")
	}

	next, cmd := m.Update(cmd())
	m = next.(GameModel)
	if !m.saved || m.screen != screenScores {
		t.Fatalf("saved = %v, screen = %v; want saved on the leaderboard", m.saved, m.screen)
	}
	if cmd == nil {
		t.Fatal("saving should reload the leaderboard")
	}
	next, _ = m.Update(cmd())
	m = next.(GameModel)
	if len(m.entries) != 1 || m.entries[0].Player != "ada" {
		t.Errorf("entries = %+v, want one entry for ada", m.entries)
	}
	if !strings.Contains(m.View(), "Leaderboard") {
		t.Error("scores view should have a title")
	}
}

func TestNameEntryRejectsBlank(t *testing.T) {
	m, _ := press(t, newTestModel(t, scores.NewMemoryStore(), game.WithGrid(fullBoard(t))), "enter", "s")
	m, cmd := press(t, m, "backspace", "backspace", "backspace", "enter")
	if cmd != nil {
		t.Error("a blank name should not be saved")
	}
	if m.message == "" {
		t.Error("a blank name should explain the problem")
	}

	m, _ = press(t, m, "esc")
	if m.screen != screenMenu {
		t.Errorf("screen = %v, want menu after skipping", m.screen)
	}
}

func TestGameOverWithoutStore(t *testing.T) {
	m, _ := press(t, newTestModel(t, nil, game.WithGrid(fullBoard(t))), "enter", "s")
	if m.screen != screenGame {
		t.Errorf("screen = %v, want game", m.screen)
	}
	if !strings.Contains(m.message, "Game over") {
		t.Errorf("message = %q, want game over", m.message)
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("game view should show the game over banner")
	}

	m, _ = press(t, m, "n")
	if m.session.Over() || m.session.Grid().Filled() != 0 {
		t.Error("n should start a new game on an empty board")
	}
}

func TestViews(t *testing.T) {
	m := newTestModel(t, nil)
	if !strings.Contains(m.View(), appName) {
		t.Error("menu view should show the app name")
	}
	m, _ = press(t, m, "enter", "s")
	view := m.View()
	for _, want := range []string{"Score", m.current().Kind().String()} {
		if !strings.Contains(view, want) {
			t.Errorf("game view missing %q", want)
		}
	}
	m, _ = press(t, m, "q")
	if !strings.Contains(m.View(), "Resume") {
		t.Error("menu should offer to resume a running game")
	}
}
