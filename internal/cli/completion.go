package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cargo-tree-tui.

To load completions:

Bash:
  $ source <(cargo-tree-tui completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ cargo-tree-tui completion zsh > "${fpath[1]}/_cargo-tree-tui"

Fish:
  $ cargo-tree-tui completion fish > ~/.config/fish/completions/cargo-tree-tui.fish

PowerShell:
  PS> cargo-tree-tui completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Stdout)
			}
			return nil
		},
	}
}
