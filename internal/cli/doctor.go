package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/config"
	"github.com/purple-lines/hypricons/internal/daemon"
	"github.com/purple-lines/hypricons/internal/hyprland"
	"github.com/purple-lines/hypricons/internal/iconlookup"
	"github.com/purple-lines/hypricons/internal/utils"
)

// CheckResult is one diagnostic line.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// CheckStatus is the outcome of a check.
type CheckStatus string

// Check outcomes. Only CheckError makes doctor exit non-zero.
const (
	CheckOK      CheckStatus = "ok"
	CheckWarning CheckStatus = "warn"
	CheckError   CheckStatus = "error"
	CheckSkipped CheckStatus = "skip"
)

var checkMarks = map[CheckStatus]string{
	CheckOK:      "[OK]",
	CheckWarning: "[!!]",
	CheckError:   "[XX]",
	CheckSkipped: "[--]",
}

// DoctorOutput is the JSON shape of `doctor`.
type DoctorOutput struct {
	Checks   []CheckResult `json:"checks"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
}

func (cli *CLI) newDoctorCmd() *cobra.Command {
	var showFixes bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the session, icon theme and daemon",
		Long: `Check everything hypricons depends on: the configuration file, the
Hyprland sockets and version, the active icon theme, the desktop-entry
index, the daemon and the systemd user unit.

Exits non-zero when any check fails.`,
		Example: `  hypricons doctor --fix
  hypricons doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			report := DoctorOutput{Checks: cli.runDiagnostics(ctx)}
			for _, r := range report.Checks {
				switch r.Status {
				case CheckError:
					report.Errors++
				case CheckWarning:
					report.Warnings++
				}
			}

			showFixes = showFixes || cli.verboseFlag
			err = out.Write(report, func() {
				for _, r := range report.Checks {
					cli.printf("%s %-20s %s\n", checkMarks[r.Status], r.Name, r.Message)
					if showFixes && r.Fix != "" && (r.Status == CheckError || r.Status == CheckWarning) {
						cli.printf("     %-20s -> %s\n", "", r.Fix)
					}
				}
				cli.printf("\n%d error(s), %d warning(s)\n", report.Errors, report.Warnings)
				if !showFixes && report.Errors+report.Warnings > 0 {
					cli.printf("Run 'hypricons doctor --fix' for suggested fixes.\n")
				}
			})
			if err != nil {
				return err
			}
			if report.Errors > 0 {
				return errors.New("diagnostics failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showFixes, "fix", "f", false, "Show suggested fixes")
	return cmd
}

func (cli *CLI) runDiagnostics(ctx context.Context) []CheckResult {
	var results []CheckResult

	results = append(results, cli.checkConfigFile())
	results = append(results, cli.checkCompositor(ctx)...)

	r := cli.newResolver(ctx)
	results = append(results, cli.checkIconTheme(r))
	results = append(results, cli.checkDesktopEntries(r))

	results = append(results, cli.checkDaemonStatus())
	results = append(results, cli.checkUserService())

	return results
}

func (cli *CLI) checkConfigFile() CheckResult {
	path := cli.Config.FilePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Configuration file",
			Status:  CheckOK,
			Message: "not found (using defaults)",
			Fix:     "Run 'hypricons config init' to write a configuration file",
		}
	}

	if err := config.ValidateFile(path); err != nil {
		return CheckResult{
			Name:    "Configuration file",
			Status:  CheckError,
			Message: fmt.Sprintf("invalid: %v", err),
			Fix:     "Run 'hypricons config validate' to see detailed errors",
		}
	}

	return CheckResult{
		Name:    "Configuration file",
		Status:  CheckOK,
		Message: utils.ShortenHome(path, cli.env.Home),
	}
}

func (cli *CLI) checkCompositor(ctx context.Context) []CheckResult {
	dir, err := hyprland.SocketDirFromEnv()
	if err != nil {
		return []CheckResult{
			{
				Name:    "Hyprland socket",
				Status:  CheckError,
				Message: err.Error(),
				Fix:     "Run hypricons from inside a Hyprland session",
			},
			{
				Name:    "Hyprland version",
				Status:  CheckSkipped,
				Message: "no compositor",
			},
		}
	}

	results := []CheckResult{{
		Name:    "Hyprland socket",
		Status:  CheckOK,
		Message: dir,
	}}

	info, err := hyprland.NewClient(dir).Version(ctx)
	if err != nil {
		return append(results, CheckResult{
			Name:    "Hyprland version",
			Status:  CheckError,
			Message: fmt.Sprintf("request failed: %v", err),
			Fix:     "Check that Hyprland is running and the socket is reachable",
		})
	}
	if err := hyprland.CheckVersion(info.Tag, hyprland.MinimumVersion); err != nil {
		return append(results, CheckResult{
			Name:    "Hyprland version",
			Status:  CheckError,
			Message: err.Error(),
			Fix:     fmt.Sprintf("Upgrade Hyprland to %s or newer", hyprland.MinimumVersion),
		})
	}
	return append(results, CheckResult{
		Name:    "Hyprland version",
		Status:  CheckOK,
		Message: info.Tag,
	})
}

func (cli *CLI) checkIconTheme(r *iconlookup.Resolver) CheckResult {
	theme, source := r.Theme(), r.ThemeSource()
	if source == iconlookup.ThemeFromFallback {
		return CheckResult{
			Name:    "Icon theme",
			Status:  CheckWarning,
			Message: fmt.Sprintf("no theme configured, using %s", theme),
			Fix:     "Set gtk-icon-theme-name in ~/.config/gtk-3.0/settings.ini or export " + iconlookup.IconThemeEnv,
		}
	}
	return CheckResult{
		Name:    "Icon theme",
		Status:  CheckOK,
		Message: fmt.Sprintf("%s (from %s)", theme, source),
	}
}

func (cli *CLI) checkDesktopEntries(r *iconlookup.Resolver) CheckResult {
	report := r.LastScan()
	if report.Indexed() == 0 {
		return CheckResult{
			Name:    "Desktop entries",
			Status:  CheckWarning,
			Message: fmt.Sprintf("no usable entries in %d directories", len(report.Dirs)-len(report.MissingDirs)),
			Fix:     "Icons will only be found by class name; run 'hypricons theme' to see the searched directories",
		}
	}
	status := CheckOK
	msg := fmt.Sprintf("%d indexed, %d skipped, %d names", report.Indexed(), report.Skipped(), r.IndexSize())
	if report.Err() != nil {
		status = CheckWarning
		msg += "; some files are unreadable"
	}
	return CheckResult{
		Name:    "Desktop entries",
		Status:  status,
		Message: msg,
		Fix:     "Run 'hypricons index --verbose' to list skipped files",
	}
}

func (cli *CLI) checkDaemonStatus() CheckResult {
	if daemon.IsRunningFromPID(cli.Config) {
		pid, err := daemon.GetPID(cli.Config)
		if err != nil {
			return CheckResult{
				Name:    "Daemon",
				Status:  CheckOK,
				Message: "running (PID unavailable)",
			}
		}
		return CheckResult{
			Name:    "Daemon",
			Status:  CheckOK,
			Message: fmt.Sprintf("running (PID: %d)", pid),
		}
	}

	return CheckResult{
		Name:    "Daemon",
		Status:  CheckWarning,
		Message: "not running",
		Fix:     "Run 'hypricons service install' or add 'exec-once = hypricons run' to hyprland.conf",
	}
}

func (cli *CLI) checkUserService() CheckResult {
	res := CheckResult{Name: "User service", Status: CheckSkipped}

	svc, err := cli.service()
	if err != nil {
		res.Message = err.Error()
		return res
	}
	if !svc.Installed() {
		res.Message = "not installed"
		return res
	}

	status, err := svc.Status()
	switch {
	case err != nil:
		res.Status, res.Message = CheckWarning, err.Error()
	case !status.SessionEnv:
		res.Status = CheckWarning
		res.Message = "systemd user manager is missing " + hyprland.SignatureEnv
		res.Fix = "Add 'exec-once = dbus-update-activation-environment --systemd " + hyprland.SignatureEnv + " WAYLAND_DISPLAY' to hyprland.conf"
	case !status.Running:
		res.Status, res.Message = CheckWarning, "installed but not running"
		res.Fix = "Run 'journalctl --user -u " + daemon.UnitName + "' to see why"
	default:
		res.Status, res.Message = CheckOK, fmt.Sprintf("running (PID: %d)", status.PID)
	}
	return res
}
