package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/goliatone/go-onboarding/internal/config"
	"github.com/goliatone/go-onboarding/internal/logging"
	"github.com/goliatone/go-onboarding/pkg/openapi"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla"
	"github.com/goliatone/go-onboarding/pkg/submission"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "onboarding",
		Short:         "Service provider registration",
		Long:          `Serves the service provider registration form over HTTP or runs it in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a YAML config file")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(),
		newRegisterCmd(),
		newContractCmd(),
		newVersionCmd(),
	)
	return root
}

// app carries the resolved configuration and logger shared by subcommands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); strings.TrimSpace(level) != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logger: logging.New(level, cfg.LogFormat, cmd.ErrOrStderr()),
	}, nil
}

// submissionService builds the configured backend and checks every snapshot
// against the registration contract before it leaves the process.
func (a *app) submissionService(ctx context.Context, recorder submission.Recorder) (submission.Built, error) {
	contract, err := openapi.Load(ctx)
	if err != nil {
		return submission.Built{}, err
	}
	built, err := submission.FromConfig(a.cfg.Submission, submission.Dependencies{
		Logger:   a.logger,
		Recorder: recorder,
		Tracer:   otel.GetTracerProvider(),
	})
	if err != nil {
		return submission.Built{}, err
	}
	built.Service = submission.Chain(built.Service, submission.WithPrecheck(contract.ValidateSnapshot))
	return built, nil
}

func (a *app) htmlRenderer() (*vanilla.Renderer, error) {
	manifest := vanilla.DefaultManifest()
	if name := strings.TrimSpace(a.cfg.Theme.Name); name != "" && name != manifest.Name {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	resolved, err := vanilla.ResolveTheme(manifest, a.cfg.Theme.Variant, a.cfg.Theme.Tokens)
	if err != nil {
		return nil, err
	}

	icon, err := readIcon(a.cfg.Theme.Icon)
	if err != nil {
		return nil, err
	}
	return vanilla.New(vanilla.WithTheme(resolved), vanilla.WithIcon(icon))
}

// readIcon accepts inline SVG markup or a path to an SVG file.
func readIcon(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "<") {
		return value, nil
	}
	raw, err := os.ReadFile(value)
	if err != nil {
		return "", fmt.Errorf("read theme icon: %w", err)
	}
	return string(raw), nil
}
