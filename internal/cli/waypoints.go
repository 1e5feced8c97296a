package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/library"
)

const coordinateHelp = `Coordinates are decimal literals. Put "--" before the arguments when the
first one is negative so it is not read as a flag.`

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all waypoints in entry order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if namesOnly {
					for _, name := range lib.Names() {
						printRaw(name)
					}
					return false, nil
				}
				if lib.Len() == 0 {
					printInfo("No waypoints")
					return false, nil
				}
				printWaypoints(lib.Waypoints())
				printDetail("%s", pluralize(lib.Len(), "waypoint"))
				return false, nil
			})
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "print only the names, one per line")
	return cmd
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show NAME",
		Short:             "Show one waypoint",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				w, ok := lib.Get(args[0])
				if !ok {
					return false, errors.New(errors.ErrCodeNotFound, "waypoint %q not found", args[0])
				}
				printWaypoint(w)
				return false, nil
			})
		},
	}
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add LAT LON ELE NAME [ADDRESS]",
		Short: "Add a waypoint",
		Long:  "Add a waypoint to the library and save it.\n\n" + coordinateHelp,
		Example: `  waypoints add 39.1178 -106.4452 4401 summit "Mt. Elbert"
  waypoints add -- -33.8568 151.2153 5 opera "Sydney Opera House"`,
		Args: cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lon, ele, name, address := waypointArgs(args)
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if err := lib.AddNew(lat, lon, ele, name, address); err != nil {
					return false, err
				}
				printSuccess("Added %s", StyleHighlight.Render(name))
				return true, nil
			})
		},
	}
}

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "update LAT LON ELE NAME [ADDRESS]",
		Short:             "Replace the coordinates and address of a waypoint",
		Long:              "Replace the coordinates and address of an existing waypoint and save.\n\n" + coordinateHelp,
		Args:              cobra.RangeArgs(4, 5),
		ValidArgsFunction: c.completeNamesAt(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lon, ele, name, address := waypointArgs(args)
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if err := lib.Update(lat, lon, ele, name, address); err != nil {
					return false, err
				}
				printSuccess("Updated %s", StyleHighlight.Render(name))
				return true, nil
			})
		},
	}
}

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove NAME",
		Aliases:           []string{"rm"},
		Short:             "Remove a waypoint",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				n := lib.Remove(args[0])
				if n == 0 {
					printWarning("No waypoint named %q", args[0])
					return false, nil
				}
				printSuccess("Removed %s", StyleHighlight.Render(args[0]))
				return true, nil
			})
		},
	}
}

// waypointArgs splits LAT LON ELE NAME [ADDRESS].
func waypointArgs(args []string) (lat, lon, ele, name, address string) {
	lat, lon, ele, name = args[0], args[1], args[2], args[3]
	if len(args) > 4 {
		address = args[4]
	}
	return lat, lon, ele, name, address
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
