package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alejandrodnm/ibflex/config"
	"github.com/alejandrodnm/ibflex/internal/adapters/flexquery"
	"github.com/alejandrodnm/ibflex/internal/adapters/metrics"
	"github.com/alejandrodnm/ibflex/internal/adapters/notify"
	"github.com/alejandrodnm/ibflex/internal/adapters/storage"
	"github.com/alejandrodnm/ibflex/internal/application/exporter"
	"github.com/alejandrodnm/ibflex/internal/domain"
	"github.com/alejandrodnm/ibflex/internal/ports"
)

const defaultConfigPath = "config/config.yaml"

// app agrupa la configuración y las dependencias de un comando.
type app struct {
	cfg      *config.Config
	exporter *exporter.Exporter
	metrics  *metrics.Recorder // nil si no hay textfile
}

type rootFlags struct {
	configPath string
	verbose    bool
	format     string
	table      bool
}

// NewRootCmd crea el comando raíz con todos los subcomandos.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "ibflex",
		Short: "Export IBKR Flex reports to daily, weekly and monthly JSON files",
		Long: `ibflex downloads an Interactive Brokers Flex report and writes one JSON file
per trading day, plus weekly and monthly summaries and a dashboard data file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath, "path to config file")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "set log level to debug")
	root.PersistentFlags().StringVar(&flags.format, "format", "", "log format: text|json (overrides config)")
	root.PersistentFlags().BoolVar(&flags.table, "table", false, "print full tables (default: compact summary)")

	root.AddCommand(
		newDailyCmd(flags),
		newWeeklyCmd(flags),
		newMonthlyCmd(flags),
		newDashboardCmd(flags),
		newAllCmd(flags),
		newVersionCmd(),
	)
	return root
}

func newDailyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Download the Flex report and write daily files",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, "daily", func(ctx context.Context, a *app) error {
			if err := a.cfg.ValidateCredentials(); err != nil {
				return err
			}
			_, err := a.exporter.Daily(ctx)
			return err
		}),
	}
}

func newWeeklyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "weekly [YYYY-MM-DD]",
		Short: "Summarise the week containing the given date (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if len(args) == 1 {
				t, err := domain.ParseDate(args[0])
				if err != nil {
					return fmt.Errorf("weekly: invalid date %q: %w", args[0], err)
				}
				ref = t
			}
			return withApp(flags, "weekly", func(ctx context.Context, a *app) error {
				_, _, err := a.exporter.Weekly(ctx, ref)
				return err
			})(cmd, args)
		},
	}
}

func newMonthlyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly [YYYY-MM]",
		Short: "Summarise the given month (default: current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("monthly: invalid month %q: %w", args[0], err)
				}
				ref = t
			}
			return withApp(flags, "monthly", func(ctx context.Context, a *app) error {
				_, _, err := a.exporter.Monthly(ctx, ref.Year(), ref.Month())
				return err
			})(cmd, args)
		},
	}
}

func newDashboardCmd(flags *rootFlags) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Write the dashboard data file from every daily file",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, "dashboard", func(ctx context.Context, a *app) error {
			_, err := a.exporter.Dashboard(ctx, year)
			return err
		}),
	}
	cmd.Flags().IntVar(&year, "year", 0, "only include days of this year (0 = all)")
	return cmd
}

// newAllCmd corre el pipeline completo, como el job diario.
func newAllCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run daily, weekly, monthly and dashboard in sequence",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, "all", func(ctx context.Context, a *app) error {
			if err := a.cfg.ValidateCredentials(); err != nil {
				return err
			}
			if _, err := a.exporter.Daily(ctx); err != nil {
				return err
			}
			now := time.Now()
			if _, _, err := a.exporter.Weekly(ctx, now); err != nil {
				return err
			}
			if _, _, err := a.exporter.Monthly(ctx, now.Year(), now.Month()); err != nil {
				return err
			}
			_, err := a.exporter.Dashboard(ctx, 0)
			return err
		}),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ibflex %s\n", version)
		},
	}
}

// withApp carga la configuración, arma las dependencias y ejecuta fn.
// Las métricas se vuelcan al final aunque fn falle.
func withApp(flags *rootFlags, command string, fn func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		path := flags.configPath
		if !cmd.Flags().Changed("config") {
			if _, err := os.Stat(path); err != nil {
				path = "" // sin archivo: solo entorno y defaults
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if flags.verbose {
			cfg.Log.Level = "debug"
		}
		if flags.format != "" {
			cfg.Log.Format = flags.format
		}

		runID := uuid.NewString()
		setupLogger(cfg.Log, runID)
		slog.Info("ibflex starting",
			"command", command,
			"config", path,
			"output_dir", cfg.Export.OutputDir,
			"version", version,
		)

		a, err := newApp(cfg, runID, flags.table)
		if err != nil {
			return err
		}

		runErr := fn(cmd.Context(), a)
		if a.metrics != nil {
			if err := a.metrics.Flush(cfg.Metrics.Textfile); err != nil {
				slog.Warn("failed to write metrics", "err", err, "path", cfg.Metrics.Textfile)
			}
		}
		if runErr == nil {
			slog.Info("ibflex finished", "command", command)
		}
		return runErr
	}
}

func newApp(cfg *config.Config, runID string, table bool) (*app, error) {
	store, err := storage.NewFileStore(cfg.Export.OutputDir)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	var recorder ports.Recorder = metrics.Nop{}
	if cfg.Metrics.Textfile != "" {
		a.metrics = metrics.NewRecorder()
		recorder = a.metrics
	}

	client := flexquery.NewClient(cfg.Flex.BaseURL,
		flexquery.WithPollDelay(cfg.PollDelay()),
		flexquery.WithTimeout(cfg.Timeout()),
	)

	a.exporter = exporter.New(exporter.Config{
		Token:           cfg.Flex.Token,
		QueryID:         cfg.Flex.QueryID,
		Obfuscate:       cfg.Obfuscate(),
		BaseCurrency:    cfg.Export.BaseCurrency,
		Filter:          cfg.CostBasisFilter(),
		DashboardOutput: filepath.Clean(cfg.Dashboard.Output),
		RunID:           runID,
	}, client, store, notify.NewConsole(table), recorder)
	return a, nil
}
