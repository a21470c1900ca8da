package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/debrief/server"
)

func newServeCmd() *cobra.Command {
	var (
		listen   string
		insecure bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve report generation over HTTP",
		Long: `Start the HTTP service. Users and their bcrypt password hashes come from
the configuration file (see hash-password). Without users the service
refuses to start unless allow_anonymous is set or --insecure is given.

Examples:
  debrief serve --config debrief.yaml
  DEBRIEF_LISTEN=:9000 debrief serve --config debrief.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if insecure {
				cfg.AllowAnonymous = true
			}

			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("starting server",
				zap.String("listen", cfg.Listen),
				zap.String("default_variant", cfg.DefaultVariant),
				zap.Int("users", len(cfg.Users)),
			)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides the config file)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Serve without authentication when no users are configured")
	return cmd
}
