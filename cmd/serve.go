package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/server"
)

var serveAllowAll bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reply pipeline over HTTP",
	Long: `Starts an HTTP server exposing POST /v1/reply for batches of brain
responses, POST /v1/reward for bandit feedback, and a /v1/chat
websocket for interactive use.`,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := buildPipeline()
		exitOnError(err)
		defer p.Close()

		srv := server.New(server.Config{
			Port:     p.cfg.Server.Port,
			AllowAll: serveAllowAll || p.cfg.Server.AllowAllOrigins,
		}, p.replier, p.ucb, p.log.Named("server"))

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			exitOnError(err)
		case sig := <-sigCh:
			p.log.Info("shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			exitOnError(srv.Shutdown(ctx))
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
