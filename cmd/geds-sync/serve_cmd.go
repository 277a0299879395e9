package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the charts built from the cached extract over a read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			prepared, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.conf.Server.Addr
			}
			logger := a.conf.Logger()
			srv := server.Default(&server.DefaultOptions{
				Logger:   logger,
				Server:   a.conf.Server,
				Snapshot: prepared,
				BuiltAt:  time.Now(),
				Registry: a.metrics.Registry,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger.WithField("addr", addr).Info("serving org charts")
			if err := srv.Start(ctx, addr); err != nil {
				return withCode(exitUsage, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: SERVER_ADDR)")
	return cmd
}
