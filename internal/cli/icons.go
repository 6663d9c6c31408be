package cli

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/iconlookup"
	"github.com/purple-lines/hypricons/internal/utils"
)

// LookupResult represents one resolved identifier for JSON output.
type LookupResult struct {
	Class   string `json:"class"`
	Indexed string `json:"indexed_icon,omitempty"`
	Path    string `json:"path,omitempty"`
	Found   bool   `json:"found"`
}

// ThemeOutput represents the active theme for JSON output.
type ThemeOutput struct {
	Theme       string   `json:"theme"`
	Source      string   `json:"source"`
	SearchPaths []string `json:"search_paths"`
	EntryDirs   []string `json:"desktop_entry_dirs"`
}

// IndexOutput represents the identifier index for JSON output.
type IndexOutput struct {
	Entries []iconlookup.IndexEntry `json:"entries"`
	Files   int                     `json:"files"`
	Indexed int                     `json:"indexed"`
	Skipped int                     `json:"skipped"`
}

// newLookupCmd creates the lookup command.
func (cli *CLI) newLookupCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "lookup <class>...",
		Short: "Resolve the icon file for application classes",
		Long: `Resolve the icon file for one or more window classes or titles,
exactly as the daemon does when a window opens.

The exit status is non-zero when any class has no icon.

Examples:
  hypricons lookup firefox kitty
  hypricons lookup --size 48 org.gnome.Nautilus
  hypricons lookup -o json Steam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("size") {
				size = cli.Config.IconSize
			}
			if size <= 0 {
				return fmt.Errorf("size must be positive, got %d", size)
			}

			r := cli.newResolver(cmd.Context())
			results := make([]LookupResult, 0, len(args))
			missing := 0
			for _, class := range args {
				res := LookupResult{Class: class}
				res.Indexed, _ = r.Lookup(class)
				res.Path, res.Found = r.FindIconPath(class, size)
				if !res.Found {
					missing++
				}
				results = append(results, res)
			}

			writeErr := out.Write(results, func() {
				for _, res := range results {
					switch {
					case !res.Found:
						cli.printf("%s: no icon found\n", res.Class)
					case cli.verboseFlag && res.Indexed != "":
						cli.printf("%s: %s (icon %q)\n", res.Class, utils.ShortenHome(res.Path, cli.env.Home), res.Indexed)
					default:
						cli.printf("%s: %s\n", res.Class, utils.ShortenHome(res.Path, cli.env.Home))
					}
				}
			})
			if writeErr != nil {
				return writeErr
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d classes have no icon", missing, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", 0, "Preferred icon size in pixels (default: icon_size from config)")

	return cmd
}

// newThemeCmd creates the theme command.
func (cli *CLI) newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Show the active icon theme and search paths",
		Long: `Show the icon theme the resolver uses, where the setting was read from
(desktop, env, gtk or fallback), and the directories searched for icons
and desktop entries, in priority order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			r := cli.newResolver(cmd.Context())
			result := ThemeOutput{
				Theme:       r.Theme(),
				Source:      string(r.ThemeSource()),
				SearchPaths: r.SearchPaths(),
				EntryDirs:   iconlookup.DesktopEntryDirs(cli.env),
			}

			return out.Write(result, func() {
				cli.printf("Icon theme: %s (from %s)\n", result.Theme, result.Source)
				cli.printf("\nIcon search paths:\n")
				for _, p := range result.SearchPaths {
					cli.printf("  %s\n", utils.ShortenHome(p, cli.env.Home))
				}
				cli.printf("\nDesktop entry directories:\n")
				for _, p := range result.EntryDirs {
					cli.printf("  %s\n", utils.ShortenHome(p, cli.env.Home))
				}
			})
		},
	}
}

// newIndexCmd creates the index command.
func (cli *CLI) newIndexCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Dump the application identifier index",
		Long: `Dump the identifier-to-icon index built from desktop entries.

Keys are lowercased window classes, application names, desktop file names
and icon names. --filter takes a glob matched against the keys.

Examples:
  hypricons index
  hypricons index --filter 'org.gnome.*'
  hypricons index -v    # also list skipped desktop files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}

			var match glob.Glob
			if filter != "" {
				match, err = glob.Compile(strings.ToLower(filter))
				if err != nil {
					return fmt.Errorf("invalid filter %q: %w", filter, err)
				}
			}

			r := cli.newResolver(cmd.Context())
			report := r.LastScan()
			result := IndexOutput{
				Entries: []iconlookup.IndexEntry{},
				Files:   len(report.Results),
				Indexed: report.Indexed(),
				Skipped: report.Skipped(),
			}
			for _, e := range r.Entries() {
				if match != nil && !match.Match(e.Key) {
					continue
				}
				result.Entries = append(result.Entries, e)
			}

			return out.Write(result, func() {
				width := 0
				for _, e := range result.Entries {
					width = max(width, len(e.Key))
				}
				for _, e := range result.Entries {
					cli.printf("%-*s  %s\n", width, e.Key, e.Icon)
				}
				cli.printf("\n%d keys shown; %d desktop files, %d indexed, %d skipped\n",
					len(result.Entries), result.Files, result.Indexed, result.Skipped)
				if cli.verboseFlag {
					for _, res := range report.Results {
						if res.Skipped() {
							cli.printf("  skipped %s: %v\n", utils.ShortenHome(res.Path, cli.env.Home), res.Err)
						}
					}
				}
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show keys matching this glob")

	return cmd
}
