// Package cli provides the command-line interface for hypricons.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/config"
	"github.com/purple-lines/hypricons/internal/iconlookup"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config  *config.Config
	rootCmd *cobra.Command

	// env and settings feed the icon resolver built by lookup commands.
	env      iconlookup.Environment
	settings iconlookup.SettingsSource
	out      io.Writer

	// Flags
	configFlag  string
	verboseFlag bool
	outputFlag  string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		env:      iconlookup.EnvironmentFromOS(),
		settings: iconlookup.NewPortalSettings(),
		out:      os.Stdout,
	}

	cli.rootCmd = &cobra.Command{
		Use:   "hypricons [command]",
		Short: "hypricons - application icon overlay for Hyprland",
		Long: `hypricons briefly shows the icon of every newly opened window, centered
on the monitor the window appeared on, fading in, holding and fading out.

Icons are resolved from the desktop entries and icon themes installed on
the system, following the active GTK icon theme and the hicolor fallback.

Run 'hypricons run' from your Hyprland session (or install it as a user
service with 'hypricons service install') to start the overlay daemon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
	}

	cli.rootCmd.PersistentFlags().StringVarP(&cli.configFlag, "config", "c", "", "Configuration file (default: "+config.GetPaths().ConfigFile+")")
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")

	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newRunCmd(),
		cli.newStatusCmd(),
		cli.newLookupCmd(),
		cli.newThemeCmd(),
		cli.newIndexCmd(),
		cli.newPreviewCmd(),
		cli.newDoctorCmd(),
		cli.newConfigCmd(),
		cli.newServiceCmd(),
		cli.newVersionCmd(),
		cli.newCompletionCmd(),
	)
}

// initialize loads configuration before any command runs.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	if cmd.Name() == "version" || cmd.Name() == "completion" {
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if cli.configFlag != "" {
		cfg, err = config.LoadFrom(cli.configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Config = cfg
	return nil
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// output returns a writer for the --output format.
func (cli *CLI) output() (*OutputWriter, error) {
	format, err := ParseOutputFormat(cli.outputFlag)
	if err != nil {
		return nil, err
	}
	return newOutputWriter(format, cli.out), nil
}

// printf writes text output.
func (cli *CLI) printf(format string, args ...any) {
	fmt.Fprintf(cli.out, format, args...)
}

// newResolver builds an icon resolver for the CLI environment.
func (cli *CLI) newResolver(ctx context.Context) *iconlookup.Resolver {
	return iconlookup.New(ctx, cli.env, iconlookup.WithSettingsSource(cli.settings))
}
