package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/pipeline"
	"github.com/ppiankov/credible/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the checks over HTTP:

  GET  /health
  POST /api/check-credibility
  POST /api/check-agentic-claim
  POST /api/verify-article-full

The listen address comes from --addr, then PORT, then server.addr.

Example:
  credible serve
  PORT=9000 credible serve
  credible serve --addr 127.0.0.1:8000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr or :$PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	addr := listenAddr(serveAddr, os.Getenv("PORT"), cfg.Server.Addr)
	logging.For("cli").WithField("addr", addr).
		WithField("adjudicator", p.AdjudicatorAvailable()).
		Info("starting server")

	return server.New(p, cfg.Server, Version).Run(ctx, addr)
}

// listenAddr resolves the listen address: flag, then PORT, then config
func listenAddr(flag, port, configured string) string {
	switch {
	case flag != "":
		return flag
	case port != "":
		return ":" + port
	case configured != "":
		return configured
	default:
		return ":8000"
	}
}
