package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/shade/cmd/shade"
	"github.com/arthur-debert/shade/pkg/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := shade.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if r, rerr := report.NewRenderer(report.FormatAuto, os.Stderr); rerr == nil {
			_ = r.RenderError(err)
		}
		stop()
		os.Exit(shade.ExitCode(err))
	}
}
