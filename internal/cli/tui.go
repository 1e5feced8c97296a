package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waypoints/pkg/waypoint"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// browseModel is the bubbletea model for picking a waypoint from a list.
type browseModel struct {
	Waypoints []waypoint.Waypoint
	Cursor    int
	Offset    int
	Height    int
	Selected  *waypoint.Waypoint
}

func newBrowseModel(wps []waypoint.Waypoint) browseModel {
	return browseModel{Waypoints: wps, Height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Waypoints)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Waypoints) == 0 {
				return m, nil
			}
			w := m.Waypoints[m.Cursor]
			m.Selected = &w
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Waypoint"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Waypoints))
	visible := m.Waypoints[m.Offset:end]
	b.WriteString(waypointTable(waypointRows(visible), m.Cursor-m.Offset))
	b.WriteString("\n\n")
	pos := m.Cursor + 1
	if len(m.Waypoints) == 0 {
		pos = 0
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.Waypoints))))

	return b.String()
}
