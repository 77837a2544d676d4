package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboarding/internal/metrics"
	"github.com/goliatone/go-onboarding/internal/server"
	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/openapi"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collectors := metrics.New()
			built, err := a.submissionService(ctx, collectors)
			if err != nil {
				return err
			}
			defer func() {
				if err := built.Close(); err != nil {
					a.logger.Warn("close submission backend", "error", err)
				}
			}()

			html, err := a.htmlRenderer()
			if err != nil {
				return err
			}

			srv, err := server.New(built.Service,
				server.WithLogger(a.logger),
				server.WithAddr(a.cfg.Addr),
				server.WithAllowedOrigins(a.cfg.AllowedOrigins...),
				server.WithSessionTTL(a.cfg.SessionTTL),
				server.WithEditPolicy(form.ParseEditPolicy(a.cfg.EditPolicy)),
				server.WithRenderer(html),
				server.WithMetrics(collectors),
				server.WithContract(openapi.Raw()),
			)
			if err != nil {
				return err
			}

			a.logger.Info("starting onboarding server",
				"addr", a.cfg.Addr,
				"backend", a.cfg.Submission.Kind,
				"version", version,
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides the config file")
	return cmd
}
