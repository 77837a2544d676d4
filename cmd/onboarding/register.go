package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/renderers/tui"
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a service provider from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			built, err := a.submissionService(ctx, nil)
			if err != nil {
				return err
			}
			defer func() {
				if err := built.Close(); err != nil {
					a.logger.Warn("close submission backend", "error", err)
				}
			}()

			controller := form.New(built.Service,
				form.WithLogger(a.logger),
				form.WithEditPolicy(form.ParseEditPolicy(a.cfg.EditPolicy)),
			)

			opts := []tui.Option{
				tui.WithLogger(a.logger),
				tui.WithOutput(cmd.OutOrStdout()),
			}
			if style, _ := cmd.Flags().GetString("style"); style != "" {
				opts = append(opts, tui.WithMarkdownStyle(style))
			}
			presenter, err := tui.New(opts...)
			if err != nil {
				return err
			}

			state, err := presenter.Run(ctx, controller)
			if err != nil {
				return err
			}
			if state != form.StateSucceeded {
				return fmt.Errorf("registration %s", state)
			}
			return nil
		},
	}
	cmd.Flags().String("style", "", "markdown style: dark, light, notty or auto")
	return cmd
}
