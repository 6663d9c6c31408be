package cli

import (
	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/hyprland"
	"github.com/purple-lines/hypricons/internal/version"
)

// VersionOutput is the JSON form of the version command.
type VersionOutput struct {
	version.Info
	MinimumHyprland string `json:"minimum_hyprland"`
}

// newVersionCmd creates the version command.
func (cli *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print hypricons version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}
			v := VersionOutput{Info: version.Get(), MinimumHyprland: hyprland.MinimumVersion}
			return out.Write(v, func() {
				cli.printf("%s\n", v.Info)
				cli.printf("requires Hyprland %s or newer\n", v.MinimumHyprland)
			})
		},
	}
}
