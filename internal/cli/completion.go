package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/pkg/library"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for waypoints.

Waypoint names are completed from the configured store.

To load completions:

Bash:
  $ source <(waypoints completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ waypoints completion bash > /etc/bash_completion.d/waypoints
  # macOS:
  $ waypoints completion bash > $(brew --prefix)/etc/bash_completion.d/waypoints

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ waypoints completion zsh > "${fpath[1]}/_waypoints"

Fish:
  $ waypoints completion fish | source

  # To load completions for each session, execute once:
  $ waypoints completion fish > ~/.config/fish/completions/waypoints.fish

PowerShell:
  PS> waypoints completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeNames completes the first argument with waypoint names.
func (c *CLI) completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return c.completeNamesAt(0)(cmd, args, toComplete)
}

// completeNamesAt completes the argument at position pos with waypoint
// names. Completion runs without the root's pre-run hooks, so the
// configuration is loaded here. Failures yield no suggestions.
func (c *CLI) completeNamesAt(pos int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if err := c.loadConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = withLogger(ctx, newLogger(io.Discard, LogInfo))

		var names []string
		err := c.withLibrary(ctx, func(lib *library.Library) (bool, error) {
			for _, name := range lib.Names() {
				if strings.HasPrefix(name, toComplete) {
					names = append(names, name)
				}
			}
			return false, nil
		})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
