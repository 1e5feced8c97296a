package cli

import (
	stderrors "errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/pkg/library"
)

const (
	demoName    = "new waypoint"
	demoAddress = "no address"
)

// demoCommand creates the demo command.
func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the library operations on a JSON file",
		Long: `Demo loads the waypoint file (--file, default ` + library.DefaultPath + `),
saves it back and restores it, then adds, shows, updates and removes a
waypoint named "` + demoName + `", printing the JSON document after every step.
The file keeps the waypoints it held before the demo.

Failed steps are reported as warnings and the walkthrough continues. A
missing file starts an empty library; a file that exists but cannot be
loaded is not saved over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.file
			if path == "" {
				path = library.DefaultPath
			}
			runDemo(cmd, path)
			return nil
		},
	}
}

func runDemo(cmd *cobra.Command, path string) {
	logger := loggerFromContext(cmd.Context())

	step := func(title string, err error) bool {
		if err != nil {
			printWarning("%s: %v", title, err)
			logger.Debug("demo step failed", "step", title, "error", err)
			return false
		}
		printSuccess("%s", title)
		return true
	}

	lib, err := library.Load(path)
	step("Load "+path, err)
	document := func() {
		printRaw(lib.String())
	}

	// A file that exists but did not load is left alone.
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		printWarning("Not saving over %s", path)
	} else if step("Save to "+path, lib.Save(path)) {
		printFile(path)
	}
	step("Restore from "+path, lib.Restore(path))
	document()

	step("Add "+StyleHighlight.Render(demoName), lib.AddNew("10.10", "123.123", "10201.0", demoName, demoAddress))
	document()

	if w, ok := lib.Get(demoName); ok {
		printWaypoint(w)
	} else {
		printWarning("No waypoint named %q", demoName)
	}

	step("Update "+StyleHighlight.Render(demoName), lib.Update("111.11", "111.11", "111.11", demoName, demoAddress))
	document()

	n := lib.Remove(demoName)
	if n == 0 {
		printWarning("No waypoint named %q", demoName)
	} else {
		printSuccess("Removed %s", StyleHighlight.Render(demoName))
	}
	document()
}
