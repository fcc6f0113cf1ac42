package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pinboard.

Board arguments complete to .json, .toml, .yaml and .yml files.

To load completions:

Bash:
  $ source <(pinboard completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pinboard completion bash > /etc/bash_completion.d/pinboard
  # macOS:
  $ pinboard completion bash > $(brew --prefix)/etc/bash_completion.d/pinboard

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pinboard completion zsh > "${fpath[1]}/_pinboard"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pinboard completion fish | source

  # To load completions for each session, execute once:
  $ pinboard completion fish > ~/.config/fish/completions/pinboard.fish

PowerShell:
  PS> pinboard completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pinboard completion powershell > pinboard.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeBoardFiles restricts file completion to board formats.
func completeBoardFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeLayoutFiles restricts file completion to saved layouts.
func completeLayoutFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
