// Command hypricons shows application icons over newly opened Hyprland windows.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/purple-lines/hypricons/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New().Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "hypricons: %v\n", err)
		os.Exit(1)
	}
}
