package cli

import (
	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command.
func (cli *CLI) newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell.

Install it once per user:

  hypricons completion bash > ~/.local/share/bash-completion/completions/hypricons
  hypricons completion zsh  > "${fpath[1]}/_hypricons"
  hypricons completion fish > ~/.config/fish/completions/hypricons.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(cli.out)
			case "fish":
				return root.GenFishCompletion(cli.out, true)
			default:
				return root.GenBashCompletionV2(cli.out, true)
			}
		},
	}
}
