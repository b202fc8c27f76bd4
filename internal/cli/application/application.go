package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"cprcheck/internal/decoder"
	"cprcheck/internal/decoder/metrics"
	"cprcheck/internal/platform/config"
	"cprcheck/internal/platform/logger"
	"cprcheck/pkg/platform/audit/publishers"
	"cprcheck/pkg/platform/audit/publishers/compliance"
	"cprcheck/pkg/platform/audit/publishers/ops"
	"cprcheck/pkg/platform/audit/store/memory"
	"cprcheck/pkg/requestcontext"
)

const Name = "cprcheck"

// Config is the process configuration plus the global CLI switches.
type Config struct {
	config.Config

	Verbosity   int
	Quiet       bool
	ShowAudit   bool
	ShowMetrics bool
}

// Application owns everything a command needs at run time. Setup must run
// (as a PreRunE) before Service or Logger are used.
type Application struct {
	Config  *Config
	Service *decoder.Service
	Logger  *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	store    *memory.InMemoryStore
	registry *prometheus.Registry
}

type Option func(*Application)

// WithIO replaces the process's standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *Application) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

func New(opts ...Option) *Application {
	a := &Application{
		Config: &Config{},
		Logger: logger.Discard(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Application) In() io.Reader  { return a.in }
func (a *Application) Out() io.Writer { return a.out }
func (a *Application) Err() io.Writer { return a.errOut }

// Setup loads configuration from the environment, lets the command apply
// its flag overrides, and wires the decoder with its logger, metrics and
// audit trail.
func (a *Application) Setup(override func(*config.Config)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return fmt.Errorf("invalid application config: %w", err)
		}
		if override != nil {
			override(&cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid application config: %w", err)
			}
		}
		a.Config.Config = cfg

		a.Logger = setupLogger(a.errOut, a.Config)
		a.store = memory.NewInMemoryStore()
		a.registry = prometheus.NewRegistry()

		auditor := publishers.NewRouter(
			compliance.New(a.store, compliance.WithLogger(a.Logger)),
			ops.New(a.store,
				ops.WithSampler(ops.NewSampler(cfg.Audit.OpsSampleRate)),
				ops.WithMetrics(ops.NewMetrics(a.registry)),
				ops.WithLogger(a.Logger),
			),
		)

		a.Service = decoder.New(
			decoder.WithAuditor(auditor),
			decoder.WithLogger(a.Logger),
			decoder.WithMetrics(metrics.New(a.registry)),
			decoder.WithPolicy(decoder.Policy{
				StrictChecksum:  cfg.Decode.StrictChecksum,
				AllowSubstitute: cfg.Decode.AllowSubstitute,
				MinimumAge:      cfg.Decode.MinimumAge,
			}),
			decoder.WithConcurrency(cfg.Decode.Concurrency),
		)

		a.Logger.DebugContext(cmd.Context(), "configured",
			"command", cmd.CommandPath(),
			"version", ReadBuildInfo().Version,
			"concurrency", cfg.Decode.Concurrency,
			"strict_checksum", cfg.Decode.StrictChecksum,
			"allow_substitute", cfg.Decode.AllowSubstitute,
			"minimum_age", cfg.Decode.MinimumAge,
		)
		return nil
	}
}

// Run executes f under a fresh request ID, then writes whatever
// diagnostics the global flags asked for. The error from f wins over a
// diagnostics failure.
func (a *Application) Run(ctx context.Context, f func(context.Context) error) error {
	ctx = requestcontext.WithNewRequestID(ctx)

	runErr := f(ctx)

	if err := a.writeDiagnostics(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "failed to write diagnostics", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func (a *Application) writeDiagnostics(ctx context.Context) error {
	if a.Config.ShowAudit && a.store != nil {
		events, err := a.store.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("unable to list audit events: %w", err)
		}
		enc := json.NewEncoder(a.errOut)
		enc.SetEscapeHTML(false)
		for _, e := range events {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("unable to write audit event: %w", err)
			}
		}
	}

	if a.Config.ShowMetrics && a.registry != nil {
		families, err := a.registry.Gather()
		if err != nil {
			return fmt.Errorf("unable to gather metrics: %w", err)
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(a.errOut, mf); err != nil {
				return fmt.Errorf("unable to write metrics: %w", err)
			}
		}
	}
	return nil
}

// setupLogger enables console logging at the configured level; -v raises it
// to info, -vv to debug, and -q silences everything.
func setupLogger(w io.Writer, cfg *Config) *slog.Logger {
	if cfg.Quiet {
		return logger.Discard()
	}
	level := cfg.Log.Level
	switch {
	case cfg.Verbosity >= 2:
		level = "debug"
	case cfg.Verbosity == 1 && level != "debug":
		level = "info"
	}
	return logger.New(w, level, cfg.Log.Format)
}
