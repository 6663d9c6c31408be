package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/daemon"
	"github.com/purple-lines/hypricons/internal/hyprland"
)

// StatusOutput represents daemon status for JSON output.
type StatusOutput struct {
	Running bool                 `json:"running"`
	PID     int                  `json:"pid,omitempty"`
	Health  *daemon.HealthStatus `json:"health,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// newRunCmd creates the run command.
func (cli *CLI) newRunCmd() *cobra.Command {
	var (
		logFile    string
		logLevel   string
		logJSON    bool
		healthAddr string
		framesDir  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the overlay daemon in the foreground",
		Long: `Run the overlay daemon in the foreground.

The daemon attaches to the Hyprland instance named by
HYPRLAND_INSTANCE_SIGNATURE and shows an icon overlay for every window
that opens. It reloads its configuration and rescans icons when Hyprland
reloads its own configuration or when it receives SIGHUP.

Examples:
  # Run with debug logging
  hypricons run --log-level=debug

  # Run with JSON logging to a file
  hypricons run --log-json --log ~/.cache/hypricons/daemon.log

  # Run with health endpoint
  hypricons run --health-addr=localhost:9470

  # Keep every rendered frame as PNG for inspection
  hypricons run --frames-dir /tmp/hypricons-frames`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("log") {
				logFile = cli.Config.Daemon.LogFile
			}
			if !flags.Changed("log-level") {
				logLevel = cli.Config.Daemon.LogLevel
			}
			if !flags.Changed("log-json") {
				logJSON = cli.Config.Daemon.LogJSON
			}
			if !flags.Changed("health-addr") {
				healthAddr = cli.Config.Daemon.HealthEndpoint
			}
			if flags.Changed("frames-dir") {
				cli.Config.Daemon.FramesDir = framesDir
			}

			level, err := daemon.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			if cli.verboseFlag {
				level = slog.LevelDebug
			}

			logger, err := daemon.NewLogger(daemon.LoggerConfig{
				Level:    level,
				FilePath: logFile,
				JSONMode: logJSON,
				MaxSize:  int64(cli.Config.Daemon.LogMaxSize) * 1024 * 1024,
			})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			client, err := hyprland.NewClientFromEnv()
			if err != nil {
				logger.Error("cannot reach compositor", "error", err)
				_ = logger.Close()
				return err
			}

			d := daemon.New(cli.Config, client)
			d.SetLogger(logger)

			if healthAddr != "" {
				d.SetHealthServer(daemon.NewHealthServer(healthAddr))
			}

			return d.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&logFile, "log", "", "Log file path (default: stderr)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs as JSON")
	cmd.Flags().StringVar(&healthAddr, "health-addr", "", "Health endpoint address (e.g., localhost:9470)")
	cmd.Flags().StringVar(&framesDir, "frames-dir", "", "Write every rendered frame as PNG into this directory")

	return cmd
}

// newStatusCmd creates the status command.
func (cli *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check if the daemon process is running",
		Long: `Check if the daemon process is currently running.

This command checks for a running daemon by looking for the PID file. When
a health endpoint is configured, the daemon's counters are shown as well.
Use 'hypricons service status' for the systemd unit state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			status := StatusOutput{Running: daemon.IsRunningFromPID(cli.Config)}
			if status.Running {
				if pid, err := daemon.GetPID(cli.Config); err == nil {
					status.PID = pid
				}
				if addr := cli.Config.Daemon.HealthEndpoint; addr != "" {
					health, err := fetchHealth(cmd.Context(), addr)
					if err != nil {
						status.Error = err.Error()
					} else {
						status.Health = health
					}
				}
			}

			return out.Write(status, func() {
				if !status.Running {
					cli.printf("Daemon is not running\n")
					return
				}
				cli.printf("Daemon is running (PID: %d)\n", status.PID)
				if h := status.Health; h != nil {
					cli.printf("\nHealth:\n")
					cli.printf("  Uptime:          %s\n", h.Uptime)
					cli.printf("  Icon theme:      %s\n", h.Theme)
					cli.printf("  Indexed names:   %d\n", h.IndexSize)
					cli.printf("  Overlays shown:  %d\n", h.OverlaysShown)
					cli.printf("  Active overlays: %d\n", h.ActiveOverlays)
					cli.printf("  Lookup misses:   %d\n", h.LookupMisses)
					cli.printf("  Decode failures: %d\n", h.DecodeFailures)
				} else if status.Error != "" {
					cli.printf("Health endpoint unavailable: %s\n", status.Error)
				}
			})
		},
	}
}

// fetchHealth queries the daemon health endpoint.
func fetchHealth(ctx context.Context, addr string) (*daemon.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+daemon.NormalizeHealthAddr(addr)+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health endpoint returned %s", resp.Status)
	}
	var status daemon.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode health status: %w", err)
	}
	return &status, nil
}
