package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/config"
	"github.com/purple-lines/hypricons/internal/daemon"
	"github.com/purple-lines/hypricons/internal/hyprland"
)

// sessionEnvHint tells the user how to export the Hyprland signature to the
// systemd user manager so the unit's start condition holds.
const sessionEnvHint = `The systemd user manager does not know ` + hyprland.SignatureEnv + `,
so the unit will not start. Add this line to hyprland.conf:

  exec-once = dbus-update-activation-environment --systemd ` + hyprland.SignatureEnv + ` WAYLAND_DISPLAY
`

// ServiceStatusOutput is the JSON shape of `service status`.
type ServiceStatusOutput struct {
	Unit string `json:"unit"`
	daemon.ServiceStatus
}

func (cli *CLI) newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the hypricons systemd user unit",
		Long: `Install and control hypricons as a systemd user unit bound to
graphical-session.target. The unit only starts when the user manager has
` + hyprland.SignatureEnv + ` in its environment.

Without systemd, add 'exec-once = hypricons run' to hyprland.conf instead.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Write, enable and start the user unit",
			Args:  cobra.NoArgs,
			RunE:  cli.runServiceInstall,
		},
		&cobra.Command{
			Use:   "uninstall",
			Short: "Stop, disable and remove the user unit",
			Args:  cobra.NoArgs,
			RunE:  cli.runServiceUninstall,
		},
		&cobra.Command{
			Use:   "restart",
			Short: "Restart the user unit",
			Long: `Restart the installed user unit. Configuration changes do not need a
restart: run 'hyprctl reload' or send SIGHUP to the daemon.`,
			Args: cobra.NoArgs,
			RunE: cli.runServiceRestart,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the user unit state",
			Long: `Show whether the user unit is installed, enabled and running. Use
'hypricons status' for a daemon started any other way.`,
			Args: cobra.NoArgs,
			RunE: cli.runServiceStatus,
		},
	)
	return cmd
}

func (cli *CLI) runServiceInstall(cmd *cobra.Command, args []string) error {
	svc, err := cli.service()
	if err != nil {
		return err
	}
	if svc.Installed() {
		cli.printf("Unit already installed at %s\n", svc.UnitPath())
		return nil
	}

	if err := svc.Install(); err != nil {
		return fmt.Errorf("failed to install service: %w", err)
	}
	cli.printf("Installed %s\n", svc.UnitPath())

	if status, err := svc.Status(); err == nil && !status.SessionEnv {
		cli.printf("\n%s", sessionEnvHint)
	}
	return nil
}

func (cli *CLI) runServiceUninstall(cmd *cobra.Command, args []string) error {
	svc, err := cli.service()
	if err != nil {
		return err
	}
	if !svc.Installed() {
		cli.printf("Unit is not installed\n")
		return nil
	}
	if err := svc.Uninstall(); err != nil {
		return fmt.Errorf("failed to uninstall service: %w", err)
	}
	cli.printf("Removed %s\n", svc.UnitPath())
	return nil
}

func (cli *CLI) runServiceRestart(cmd *cobra.Command, args []string) error {
	svc, err := cli.service()
	if err != nil {
		return err
	}
	if !svc.Installed() {
		return errors.New("unit is not installed; run 'hypricons service install' first")
	}
	if err := svc.Restart(); err != nil {
		return fmt.Errorf("failed to restart service: %w", err)
	}
	cli.printf("Restarted %s\n", daemon.UnitName)
	return nil
}

func (cli *CLI) runServiceStatus(cmd *cobra.Command, args []string) error {
	out, err := cli.output()
	if err != nil {
		return err
	}
	svc, err := cli.service()
	if err != nil {
		return err
	}
	status, err := svc.Status()
	if err != nil {
		return fmt.Errorf("failed to get service status: %w", err)
	}

	return out.Write(ServiceStatusOutput{Unit: svc.UnitPath(), ServiceStatus: status}, func() {
		if !status.Installed {
			cli.printf("%s: not installed (run 'hypricons service install')\n", daemon.UnitName)
			return
		}
		cli.printf("%s: %s\n", daemon.UnitName, svc.UnitPath())
		cli.printf("  Enabled: %s\n", yesNo(status.Enabled))
		if status.Running {
			cli.printf("  Running: yes (PID %d)\n", status.PID)
		} else {
			cli.printf("  Running: no\n")
		}
		if !status.SessionEnv {
			cli.printf("\n%s", sessionEnvHint)
		}
	})
}

// service builds the unit description from the running binary and flags.
func (cli *CLI) service() (*daemon.Service, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
		return nil, fmt.Errorf("failed to resolve executable path: %w", err)
	}

	cfg := daemon.ServiceConfig{
		ExecutablePath: execPath,
		LogPath:        cli.Config.Daemon.LogFile,
	}
	if cli.configFlag != "" {
		if abs, err := filepath.Abs(cli.configFlag); err == nil {
			cfg.ConfigPath = abs
		}
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(config.GetPaths().CacheDir, "daemon.log")
	}
	return daemon.NewService(cfg)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
