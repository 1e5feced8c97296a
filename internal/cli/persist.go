package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/pkg/library"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the waypoint document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if output == "" {
					printRaw(lib.String())
					return false, nil
				}
				if err := lib.Save(output); err != nil {
					return false, err
				}
				printSuccess("Exported %s", pluralize(lib.Len(), "waypoint"))
				printFile(output)
				return false, nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

// saveCommand creates the save command.
func (c *CLI) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [PATH]",
		Short: "Save a copy of the library to a JSON file",
		Long: `Save writes the library held by the configured store to a JSON file,
replacing the file if it exists. PATH defaults to ` + library.DefaultPath + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := library.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if err := lib.Save(path); err != nil {
					return false, err
				}
				printSuccess("Saved %s", pluralize(lib.Len(), "waypoint"))
				printFile(path)
				return false, nil
			})
		},
	}
}

// restoreCommand creates the restore command.
func (c *CLI) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [PATH]",
		Short: "Replace the library with the content of a JSON file",
		Long: `Restore empties the library, reloads it from a JSON file and writes the
result to the configured store. PATH defaults to ` + library.DefaultPath + `.

The file may hold an array of waypoint objects or an object keyed by name.
If the file cannot be read or parsed, the store is left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := library.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			return c.withLibrary(cmd.Context(), func(lib *library.Library) (bool, error) {
				if err := lib.Restore(path); err != nil {
					return false, err
				}
				printSuccess("Restored %s", pluralize(lib.Len(), "waypoint"))
				printFile(path)
				return true, nil
			})
		},
	}
}
