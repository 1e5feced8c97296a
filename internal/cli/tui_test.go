package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/waypoints/pkg/waypoint"
)

func testWaypoints() []waypoint.Waypoint {
	return []waypoint.Waypoint{
		waypoint.New(39.1178, -106.4452, 4401, "summit", "Mt. Elbert"),
		waypoint.New(33.3, 111.7, 370, "ASU Poly", ""),
		waypoint.New(1, 2, 3, "camp", "base"),
	}
}

func press(m browseModel, key string) (browseModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(browseModel), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestBrowseModelNavigation(t *testing.T) {
	m := newBrowseModel(testWaypoints())

	m, _ = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.Cursor)
	}

	m, _ = press(m, "down")
	m, _ = press(m, "j")
	m, _ = press(m, "j")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}

	m, _ = press(m, "k")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
}

func TestBrowseModelScroll(t *testing.T) {
	m := newBrowseModel(testWaypoints())
	m.Height = 2

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
	if view := m.View(); strings.Contains(view, "summit") || !strings.Contains(view, "camp") {
		t.Errorf("view should show the scrolled window:\n%s", view)
	}

	m, _ = press(m, "up")
	m, _ = press(m, "up")
	if m.Offset != 0 {
		t.Errorf("offset = %d, want 0", m.Offset)
	}
}

func TestBrowseModelSelect(t *testing.T) {
	m := newBrowseModel(testWaypoints())
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")

	if !isQuit(cmd) {
		t.Error("enter should quit")
	}
	if m.Selected == nil || m.Selected.Name != "ASU Poly" {
		t.Errorf("selected = %+v", m.Selected)
	}
}

func TestBrowseModelQuit(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m, cmd := press(newBrowseModel(testWaypoints()), key)
		if !isQuit(cmd) {
			t.Errorf("%s should quit", key)
		}
		if m.Selected != nil {
			t.Errorf("%s should not select", key)
		}
	}
}

func TestBrowseModelEmpty(t *testing.T) {
	m, cmd := press(newBrowseModel(nil), "enter")
	if cmd != nil || m.Selected != nil {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "[0/0]") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestBrowseModelWindowSize(t *testing.T) {
	m := newBrowseModel(testWaypoints())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if got := next.(browseModel).Height; got != 22 {
		t.Errorf("height = %d, want 22", got)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if got := next.(browseModel).Height; got != 5 {
		t.Errorf("height = %d, want 5", got)
	}
}
