package daemon

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"github.com/purple-lines/hypricons/internal/hyprland"
)

// UnitName is the systemd user unit written by Service.Install.
const UnitName = "hypricons.service"

// ErrServiceNotSupported is returned outside Linux, where neither Hyprland
// nor systemd user units exist.
var ErrServiceNotSupported = errors.New("user services require systemd on Linux")

// The unit only starts inside a Hyprland session: the user manager must
// have HYPRLAND_INSTANCE_SIGNATURE in its environment.
var unitTemplate = template.Must(template.New("unit").Funcs(template.FuncMap{
	"arg": execArg,
}).Parse(`[Unit]
Description=hypricons application icon overlay for Hyprland
Documentation=https://github.com/purple-lines/hypricons
PartOf=graphical-session.target
After=graphical-session.target
ConditionEnvironment={{.SignatureEnv}}

[Service]
Type=simple
ExecStart={{arg .ExecutablePath}} run{{with .ConfigPath}} --config {{arg .}}{{end}}{{with .LogPath}} --log {{arg .}}{{end}}
ExecReload=/bin/kill -HUP $MAINPID
Restart=on-failure
RestartSec=5
NoNewPrivileges=true
PrivateTmp=true

[Install]
WantedBy=graphical-session.target
`))

// execArg quotes a path for an ExecStart line when it contains spaces.
func execArg(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return strconv.Quote(s)
}

// ServiceConfig describes the unit to install.
type ServiceConfig struct {
	// ExecutablePath is the hypricons binary started by the unit.
	ExecutablePath string
	// ConfigPath is passed as --config when set.
	ConfigPath string
	// LogPath is passed as --log when set.
	LogPath string
}

// ServiceStatus is the state of the user unit as systemd reports it.
type ServiceStatus struct {
	Installed bool `json:"installed"`
	Enabled   bool `json:"enabled"`
	Running   bool `json:"running"`
	PID       int  `json:"pid,omitempty"`
	// SessionEnv reports whether the user manager has the Hyprland instance
	// signature, without which the unit's start condition fails.
	SessionEnv bool `json:"session_env"`
}

// Service installs and controls the hypricons systemd user unit.
type Service struct {
	cfg      ServiceConfig
	unitPath string

	// systemctl runs `systemctl --user <args>` and returns its stdout.
	systemctl func(args ...string) ([]byte, error)
}

// NewService returns a Service for cfg. The unit is written to
// $XDG_CONFIG_HOME/systemd/user.
func NewService(cfg ServiceConfig) (*Service, error) {
	if runtime.GOOS != "linux" {
		return nil, fmt.Errorf("%w (running on %s)", ErrServiceNotSupported, runtime.GOOS)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if !filepath.IsAbs(configHome) {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate systemd user directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return &Service{
		cfg:       cfg,
		unitPath:  filepath.Join(configHome, "systemd", "user", UnitName),
		systemctl: userSystemctl,
	}, nil
}

func userSystemctl(args ...string) ([]byte, error) {
	// #nosec G204 - fixed subcommands and the unit name
	return exec.Command("systemctl", append([]string{"--user"}, args...)...).Output()
}

// UnitPath returns where the unit file lives.
func (s *Service) UnitPath() string {
	return s.unitPath
}

// Unit renders the unit file.
func (s *Service) Unit() ([]byte, error) {
	var buf bytes.Buffer
	err := unitTemplate.Execute(&buf, struct {
		ServiceConfig
		SignatureEnv string
	}{s.cfg, hyprland.SignatureEnv})
	if err != nil {
		return nil, fmt.Errorf("failed to render unit: %w", err)
	}
	return buf.Bytes(), nil
}

// Installed reports whether the unit file exists.
func (s *Service) Installed() bool {
	_, err := os.Stat(s.unitPath)
	return err == nil
}

// Install writes the unit, then enables and starts it.
func (s *Service) Install() error {
	unit, err := s.Unit()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.unitPath), 0750); err != nil {
		return fmt.Errorf("failed to create systemd user directory: %w", err)
	}
	if err := os.WriteFile(s.unitPath, unit, 0644); err != nil {
		return fmt.Errorf("failed to write unit: %w", err)
	}

	if _, err := s.systemctl("daemon-reload"); err != nil {
		return fmt.Errorf("systemctl daemon-reload: %w", err)
	}
	if _, err := s.systemctl("enable", "--now", UnitName); err != nil {
		return fmt.Errorf("systemctl enable: %w", err)
	}
	return nil
}

// Uninstall stops, disables and removes the unit. A missing unit is not an error.
func (s *Service) Uninstall() error {
	// Fails when the unit is already stopped or disabled.
	_, _ = s.systemctl("disable", "--now", UnitName)

	if err := os.Remove(s.unitPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove unit: %w", err)
	}
	_, _ = s.systemctl("daemon-reload")
	return nil
}

// Restart restarts the unit.
func (s *Service) Restart() error {
	if _, err := s.systemctl("restart", UnitName); err != nil {
		return fmt.Errorf("systemctl restart: %w", err)
	}
	return nil
}

// Status queries the unit and the user manager environment.
func (s *Service) Status() (ServiceStatus, error) {
	status := ServiceStatus{Installed: s.Installed()}

	if env, err := s.systemctl("show-environment"); err == nil {
		status.SessionEnv = bytes.Contains(env, []byte(hyprland.SignatureEnv+"="))
	}
	if !status.Installed {
		return status, nil
	}

	out, err := s.systemctl("show", UnitName, "--property=ActiveState,UnitFileState,MainPID")
	if err != nil {
		return status, fmt.Errorf("systemctl show: %w", err)
	}
	props := parseProperties(out)
	status.Running = props["ActiveState"] == "active"
	status.Enabled = props["UnitFileState"] == "enabled"
	if pid, err := strconv.Atoi(props["MainPID"]); err == nil && pid > 0 {
		status.PID = pid
	}
	return status, nil
}

// parseProperties parses `systemctl show` Key=Value lines.
func parseProperties(out []byte) map[string]string {
	props := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if k, v, ok := strings.Cut(sc.Text(), "="); ok {
			props[k] = v
		}
	}
	return props
}
