// Command matchreport extracts shot events and team statistics from
// rendered match-report page dumps.
//
// Usage:
//
//	matchreport extract --dir ./dumps --workers 4
//	matchreport extract a.json b.json --timeout 45s
//	matchreport inspect ./dumps/michigan-texas.json
//	matchreport layout --layout ./layouts/wyscout-v2.yaml
//	matchreport history "Michigan Wolverines"
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/match-reports/internal/app"
	"github.com/riskibarqy/match-reports/internal/config"
	"github.com/riskibarqy/match-reports/internal/platform/logging"
	"github.com/riskibarqy/match-reports/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type overrides struct {
	layoutFile string
	workers    int
	timeout    time.Duration
}

func (o overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("layout") {
		cfg.LayoutFile = o.layoutFile
	}
	if cmd.Flags().Changed("workers") && o.workers > 0 {
		cfg.Workers = o.workers
	}
	if cmd.Flags().Changed("timeout") && o.timeout > 0 {
		cfg.FileTimeout = o.timeout
	}
}

func main() {
	_ = godotenv.Load(".env")

	var opts overrides
	root := &cobra.Command{
		Use:           "matchreport",
		Short:         "Match report shot and stat extraction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.layoutFile, "layout", "", "layout table YAML (default: built-in wyscout-v1)")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "files processed concurrently (default: WORKERS)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "per-file extraction timeout (default: FILE_TIMEOUT)")

	root.AddCommand(extractCmd(&opts))
	root.AddCommand(inspectCmd(&opts))
	root.AddCommand(layoutCmd(&opts))
	root.AddCommand(historyCmd(&opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func extractCmd(opts *overrides) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "extract [dump ...]",
		Short: "Extract every report and append the records to the configured sinks",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if dir != "" {
				listed, err := usecase.ListReports(dir)
				if err != nil {
					return err
				}
				paths = append(listed, args...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no reports given; pass dump paths or --dir")
			}

			return run(cmd, opts, true, func(ctx context.Context, a *app.App) error {
				result, err := a.Service.ProcessBatch(ctx, paths)
				if err != nil {
					return err
				}
				for _, file := range result.Files {
					if file.Err != nil {
						a.Logger.Warn("report not extracted", "path", file.Path, "status", file.Status, "error", file.Err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
				if a.CSV != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "shots csv: %s\nstats csv: %s\n", a.CSV.ShotsPath(), a.CSV.StatsPath())
				}
				if result.FileCount > 0 && result.FailedCount == result.FileCount {
					return fmt.Errorf("all %d reports failed", result.FileCount)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of page dumps, processed in directory order")
	return cmd
}

func inspectCmd(opts *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dump>",
		Short: "Extract one report and print the record with its diagnostics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(ctx context.Context, a *app.App) error {
				record, diag, err := a.Service.ProcessFile(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"record":      record,
					"diagnostics": diag,
					"ambiguities": diag.Ambiguities(),
				})
			})
		},
	}
}

func layoutCmd(opts *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the effective layout table as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(_ context.Context, a *app.App) error {
				raw, err := a.Service.Layout().Encode()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			})
		},
	}
}

func historyCmd(opts *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "history <team>",
		Short: "Print the stored team-stat records of one team as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, false, func(ctx context.Context, a *app.App) error {
				if !a.Config.DBEnabled {
					return fmt.Errorf("history requires DB_ENABLED=true")
				}
				items, err := a.Repo.ListByTeam(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), items)
			})
		},
	}
}

func run(cmd *cobra.Command, opts *overrides, withTelemetry bool, fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts.apply(cmd, &cfg)
	if !withTelemetry {
		cfg.CSVEnabled = false
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	a, err := app.New(cfg, logger, withTelemetry)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, span := otel.Tracer("match-reports/cmd/matchreport").Start(ctx, "matchreport."+cmd.Name())
	defer span.End()

	return fn(ctx, a)
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
