// Package cli implements the salesctl command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"salescore/internal/config"
	"salescore/internal/core"
	"salescore/internal/infra/persistence/durable"
	"salescore/internal/observability"
)

// App holds the persistent flag values shared by every command.
type App struct {
	EnvFile    string
	PrettyJSON bool
	Metrics    string
	Trace      bool
	Audit      bool
}

// NewRootCmd builds the salesctl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "salesctl",
		Short:        "Sales CRM record store and metrics",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Reset storage to the seed dataset
  salesctl seed

  # Upgrade stored data to the current schema
  salesctl migrate

  # Clients that are due a call
  salesctl clients list --overdue

  # Order total, profit and paid amount
  salesctl orders total ORD-0001
`),
	}

	cmd.PersistentFlags().StringVar(&app.EnvFile, "env-file", envOr("SALESCORE_ENV_FILE", ".env"), "Path to a .env file (missing files are ignored)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Trace, "trace", false, "Write one JSON span per operation to stderr")
	cmd.PersistentFlags().BoolVar(&app.Audit, "audit", false, "Write one JSON audit entry per mutating operation to stderr")
	cmd.PersistentFlags().StringVar(&app.Metrics, "metrics", envOr("SALESCORE_METRICS", "none"), "Dump operation metrics to stderr after the command (none|expvar|prometheus)")

	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newOrdersCmd(app))
	cmd.AddCommand(newStockCmd(app))
	cmd.AddCommand(newMetricsCmd(app))

	return cmd
}

// session is one opened store plus the service and recorders around it.
type session struct {
	svc    *core.Service
	store  *durable.Store
	logger *slog.Logger
	dump   func() error
}

func openSession(cmd *cobra.Command, app *App) (*session, error) {
	cfg, err := config.Load(app.EnvFile)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))

	opts := []core.Option{core.WithLogger(logger)}
	if app.Trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr())))
	}
	if app.Audit {
		opts = append(opts, core.WithAuditRecorder(core.NewJSONAuditRecorder(cmd.ErrOrStderr())))
	}
	dump := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(app.Metrics)) {
	case "", "none":
	case "expvar":
		rec := core.NewExpvarMetricsRecorder("")
		opts = append(opts, core.WithMetricsRecorder(rec))
		dump = func() error {
			return json.NewEncoder(cmd.ErrOrStderr()).Encode(rec.Snapshot())
		}
	case "prometheus":
		rec, err := observability.NewPrometheusRecorder(prometheus.NewRegistry())
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithMetricsRecorder(rec))
		dump = func() error { return writePrometheusText(cmd, rec.Registry()) }
	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", app.Metrics)
	}

	store, err := core.OpenPersistentStore(cmd.Context(), cfg, core.NewDefaultRulesEngine(), logger)
	if err != nil {
		return nil, err
	}
	return &session{
		svc:    core.NewService(store, opts...),
		store:  store,
		logger: logger,
		dump:   dump,
	}, nil
}

func (s *session) close() error {
	dumpErr := s.dump()
	if err := s.store.Close(); err != nil {
		return err
	}
	return dumpErr
}

// run opens a session, runs fn and closes the session. fn returns the value
// written to stdout inside the {"data": ...} envelope.
func run(cmd *cobra.Command, app *App, fn func(ctx context.Context, s *session) (any, error)) error {
	s, err := openSession(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	out, err := fn(cmd.Context(), s)
	if closeErr := s.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, out)
}

func writePrometheusText(cmd *cobra.Command, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(cmd.ErrOrStderr(), expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(map[string]any{"data": v})
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
