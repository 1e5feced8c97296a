package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/library"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a waypoint interactively and show it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if lib.Len() == 0 {
					printInfo("No waypoints")
					return false, nil
				}

				p := tea.NewProgram(newBrowseModel(lib.Waypoints()), tea.WithContext(cmd.Context()))
				final, err := p.Run()
				if err != nil {
					return false, errors.Wrap(errors.ErrCodeInternal, err, "browse")
				}
				if m, ok := final.(browseModel); ok && m.Selected != nil {
					printWaypoint(*m.Selected)
				}
				return false, nil
			})
		},
	}
}
