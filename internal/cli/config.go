package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/config"
)

// configPathOutput represents config path output for JSON.
type configPathOutput struct {
	ConfigFile   string `json:"config_file"`
	ConfigDir    string `json:"config_dir"`
	DataDir      string `json:"data_dir"`
	CacheDir     string `json:"cache_dir"`
	ConfigExists bool   `json:"config_exists"`
}

// configOutput represents the effective configuration for JSON.
type configOutput struct {
	File          string             `json:"file"`
	Enabled       bool               `json:"enabled"`
	IconSize      int                `json:"icon_size"`
	FadeIn        string             `json:"fade_in"`
	Hold          string             `json:"hold"`
	FadeOut       string             `json:"fade_out"`
	IgnoreClasses []string           `json:"ignore_classes"`
	Daemon        daemonConfigOutput `json:"daemon"`
}

// daemonConfigOutput represents daemon settings for JSON.
type daemonConfigOutput struct {
	LogFile        string `json:"log_file,omitempty"`
	PIDFile        string `json:"pid_file,omitempty"`
	LogLevel       string `json:"log_level"`
	LogJSON        bool   `json:"log_json"`
	HealthEndpoint string `json:"health_endpoint,omitempty"`
	FramesDir      string `json:"frames_dir,omitempty"`
	Notifications  bool   `json:"notifications"`
}

// validationResult represents validation output for JSON.
type validationResult struct {
	File   string `json:"file"`
	Exists bool   `json:"exists"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
}

// summarizeConfig flattens a configuration for display.
func summarizeConfig(cfg *config.Config) configOutput {
	ignore := cfg.IgnoreClasses
	if ignore == nil {
		ignore = []string{}
	}
	return configOutput{
		File:          cfg.FilePath(),
		Enabled:       cfg.Enabled,
		IconSize:      cfg.IconSize,
		FadeIn:        cfg.FadeIn().String(),
		Hold:          cfg.Hold().String(),
		FadeOut:       cfg.FadeOut().String(),
		IgnoreClasses: ignore,
		Daemon: daemonConfigOutput{
			LogFile:        cfg.Daemon.LogFile,
			PIDFile:        cfg.Daemon.PIDFile,
			LogLevel:       cfg.Daemon.LogLevel,
			LogJSON:        cfg.Daemon.LogJSON,
			HealthEndpoint: cfg.Daemon.HealthEndpoint,
			FramesDir:      cfg.Daemon.FramesDir,
			Notifications:  cfg.Daemon.Notifications.Enabled,
		},
	}
}

// newConfigCmd creates the config command group.
func (cli *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hypricons configuration",
		Long: `Manage hypricons configuration files and settings.

Use 'hypricons config show' to print the effective configuration.
Use 'hypricons config init' to write a configuration file with defaults.
Use 'hypricons config edit' to open the configuration in your editor.

A running daemon picks up changes on 'hyprctl reload' or SIGHUP.`,
	}

	cmd.AddCommand(
		cli.newConfigShowCmd(),
		cli.newConfigInitCmd(),
		cli.newConfigPathCmd(),
		cli.newConfigEditCmd(),
		cli.newConfigValidateCmd(),
	)

	return cmd
}

// newConfigShowCmd creates the config show command.
func (cli *CLI) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			c := summarizeConfig(cli.Config)
			return out.Write(c, func() {
				cli.printf("Configuration: %s\n\n", c.File)
				cli.printf("Overlay:\n")
				cli.printf("  Enabled:        %t\n", c.Enabled)
				cli.printf("  Icon size:      %dpx\n", c.IconSize)
				cli.printf("  Fade in:        %s\n", c.FadeIn)
				cli.printf("  Hold:           %s\n", c.Hold)
				cli.printf("  Fade out:       %s\n", c.FadeOut)
				if len(c.IgnoreClasses) > 0 {
					cli.printf("  Ignore classes:\n")
					for _, p := range c.IgnoreClasses {
						cli.printf("    - %s\n", p)
					}
				}

				cli.printf("\nDaemon:\n")
				cli.printf("  Log level:      %s\n", c.Daemon.LogLevel)
				if c.Daemon.LogFile != "" {
					cli.printf("  Log file:       %s\n", c.Daemon.LogFile)
				}
				if c.Daemon.HealthEndpoint != "" {
					cli.printf("  Health:         %s\n", c.Daemon.HealthEndpoint)
				}
				if c.Daemon.FramesDir != "" {
					cli.printf("  Frames dir:     %s\n", c.Daemon.FramesDir)
				}
				cli.printf("  Notifications:  %t\n", c.Daemon.Notifications)
			})
		},
	}
}

// newConfigInitCmd creates the config init command.
func (cli *CLI) newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Write a configuration file with the default overlay settings.

An existing file is left untouched unless --force is given.

Examples:
  hypricons config init
  hypricons --config ./hypricons.yaml config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cli.Config.FilePath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", path)
			}

			fresh := config.Default()
			fresh.SetFilePath(path)
			if err := fresh.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cli.printf("Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

// newConfigPathCmd creates the config path command.
func (cli *CLI) newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			paths := config.GetPaths()
			file := cli.Config.FilePath()

			_, statErr := os.Stat(file)
			output := configPathOutput{
				ConfigFile:   file,
				ConfigDir:    paths.ConfigDir,
				DataDir:      paths.DataDir,
				CacheDir:     paths.CacheDir,
				ConfigExists: statErr == nil,
			}

			return out.Write(output, func() {
				cli.printf("Configuration paths:\n")
				cli.printf("  Config file:  %s\n", output.ConfigFile)
				cli.printf("  Config dir:   %s\n", output.ConfigDir)
				cli.printf("  Data dir:     %s\n", output.DataDir)
				cli.printf("  Cache dir:    %s\n", output.CacheDir)

				cli.printf("\nStatus:\n")
				if output.ConfigExists {
					cli.printf("  Config file exists\n")
				} else {
					cli.printf("  Config file does not exist (defaults in use)\n")
				}
			})
		},
	}
}

// newConfigEditCmd creates the config edit command.
func (cli *CLI) newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open configuration file in editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = os.Getenv("VISUAL")
			}
			if editor == "" {
				for _, e := range []string{"nvim", "vim", "vi", "nano"} {
					if _, err := exec.LookPath(e); err == nil {
						editor = e
						break
					}
				}
			}
			if editor == "" {
				return errors.New("no editor found: set $EDITOR environment variable")
			}

			configPath := cli.Config.FilePath()

			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := cli.Config.Save(); err != nil {
					return fmt.Errorf("failed to create config file: %w", err)
				}
			}

			// #nosec G204 - editor is from $EDITOR env var (user-controlled but expected), configPath is the config file path
			editorCmd := exec.CommandContext(cmd.Context(), editor, configPath)
			editorCmd.Stdin = os.Stdin
			editorCmd.Stdout = os.Stdout
			editorCmd.Stderr = os.Stderr

			return editorCmd.Run()
		},
	}
}

// newConfigValidateCmd creates the config validate command.
func (cli *CLI) newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file without repairing any value.

The daemon replaces out-of-range values with defaults when loading; this
command reports them instead. Without an argument the active
configuration file is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			path := cli.Config.FilePath()
			if len(args) == 1 {
				path = args[0]
			}

			result := validationResult{File: path, Valid: true}
			if _, err := os.Stat(path); err == nil {
				result.Exists = true
				if err := config.ValidateFile(path); err != nil {
					result.Valid = false
					result.Error = err.Error()
				}
			}

			writeErr := out.Write(result, func() {
				switch {
				case !result.Exists:
					cli.printf("%s does not exist; defaults are valid\n", result.File)
				case result.Valid:
					cli.printf("%s: configuration is valid\n", result.File)
				default:
					cli.printf("%s: %s\n", result.File, result.Error)
				}
			})
			if writeErr != nil {
				return writeErr
			}

			if !result.Valid {
				return errors.New("configuration has errors")
			}
			return nil
		},
	}
}
