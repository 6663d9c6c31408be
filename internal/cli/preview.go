package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/purple-lines/hypricons/internal/daemon"
	"github.com/purple-lines/hypricons/internal/hyprland"
	"github.com/purple-lines/hypricons/internal/overlay"
	"github.com/purple-lines/hypricons/internal/render"
)

// PreviewOutput represents a rendered preview for JSON output.
type PreviewOutput struct {
	Class    string `json:"class"`
	IconPath string `json:"icon_path"`
	Dir      string `json:"dir"`
	Frames   int    `json:"frames"`
	Duration string `json:"duration"`
}

// newPreviewCmd creates the preview command.
func (cli *CLI) newPreviewCmd() *cobra.Command {
	var (
		outDir string
		width  int
		height int
		fps    float64
	)

	cmd := &cobra.Command{
		Use:   "preview <class>",
		Short: "Render an overlay animation to PNG frames",
		Long: `Render the full overlay animation for an application class offscreen,
using the configured icon size and timings, and write one PNG per frame.

No compositor is needed; the frames are drawn on a virtual monitor of the
given size and refresh rate.

Examples:
  hypricons preview firefox --out /tmp/preview
  hypricons preview kitty --width 2560 --height 1440 --fps 144`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.output()
			if err != nil {
				return err
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid surface size %dx%d", width, height)
			}
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %g", fps)
			}

			sink, err := render.NewDirSink(outDir)
			if err != nil {
				return err
			}

			surface := hyprland.Monitor{
				Name:    "preview",
				Width:   width,
				Height:  height,
				Scale:   1,
				Refresh: fps,
				Focused: true,
			}
			compositor := render.NewCompositor()
			engine := overlay.NewEngine(cli.newResolver(cmd.Context()), overlay.FileDecoder{}, compositor)
			defer engine.Close()
			if err := engine.SetSettings(daemon.OverlaySettings(cli.Config)); err != nil {
				return err
			}

			start := time.Unix(0, 0)
			h, err := engine.Spawn(args[0], surface, start)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			o, _ := engine.Overlay(h)
			result := PreviewOutput{Class: args[0], IconPath: o.IconPath, Dir: sink.Dir()}

			step := overlay.TickInterval([]overlay.Surface{surface})
			now := start
			for {
				now = now.Add(step)
				if !engine.Tick(now).Redraw() {
					break
				}
				frame, err := compositor.RenderFrame(surface, engine)
				if err != nil {
					return err
				}
				if err := sink.Present(surface.ID(), frame); err != nil {
					return err
				}
			}
			result.Frames = sink.Frames(surface.ID())
			result.Duration = now.Sub(start).String()

			return out.Write(result, func() {
				cli.printf("Rendered %d frames of %s (%s) into %s\n", result.Frames, result.Class, result.Duration, result.Dir)
				cli.printf("Icon: %s\n", result.IconPath)
			})
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "hypricons-preview", "Directory receiving the frames")
	cmd.Flags().IntVar(&width, "width", 1920, "Virtual monitor width in pixels")
	cmd.Flags().IntVar(&height, "height", 1080, "Virtual monitor height in pixels")
	cmd.Flags().Float64Var(&fps, "fps", 60, "Virtual monitor refresh rate")

	return cmd
}
