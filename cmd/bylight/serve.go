package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/praetorian-inc/bylight/pkg/serve"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run bylight as a long-lived server that reads requests from stdin and
writes responses to stdout, one JSON object per line.

Request types: match, highlight, render, sets, close. The server answers
with a "ready" line on startup and runs until stdin closes, a close request
arrives, or SIGTERM is received.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	core := scanner.NewCore(scanner.CoreOptions{
		Matcher: matcherOptions(),
		Colors:  cfg.Colors,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	return srv.Run(ctx)
}
