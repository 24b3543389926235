package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/example/genius/internal/excel"
	"github.com/example/genius/internal/scheduler"
	"github.com/example/genius/internal/spaced_repetition"
	"github.com/example/genius/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "genius",
		Short:         "Recall prediction and review scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newReviewCmd(),
		newPredictCmd(),
		newScheduleCmd(),
	)
	return root
}

// withApp runs fn with a wired app and closes it afterwards
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, a, args)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Reschedule all facts periodically and expose metrics",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.scheduler.Start(ctx); err != nil {
				return err
			}
			defer a.scheduler.Stop()

			var srv *http.Server
			if a.cfg.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", a.metrics.Handler())
				srv = &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.log.Error("Metrics server failed", zap.Error(err))
					}
				}()
				a.log.Info("Serving metrics", zap.String("addr", a.cfg.MetricsAddr))
			}

			a.log.Info("Scheduler running. Press Ctrl+C to stop.")
			<-ctx.Done()
			a.log.Info("Shutting down")

			if srv != nil {
				// Give the metrics server time for a graceful shutdown
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.log.Warn("Error during shutdown", zap.Error(err))
				}
			}
			return nil
		}),
	}
}

func newImportCmd() *cobra.Command {
	cfg := excel.DefaultImportConfig()
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import review history from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			cfg.FilePath = args[0]
			ctx := cmd.Context()

			res, err := excel.ImportHistory(ctx, cfg, a.reviews)
			if err != nil {
				return err
			}
			a.metrics.ReviewsImported.Add(float64(res.Imported))
			for _, msg := range res.Errors {
				a.log.Warn("Skipped row", zap.String("reason", msg))
			}

			for _, id := range res.FactIDs {
				if _, err := a.scheduler.Reschedule(ctx, id); err != nil {
					return fmt.Errorf("failed to reschedule %s: %w", id, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "processed %d rows: %d imported, %d skipped, %d facts rescheduled\n",
				res.TotalProcessed, res.Imported, res.Skipped, len(res.FactIDs))
			return nil
		}),
	}
	cmd.Flags().StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "sheet to read from an Excel file")
	cmd.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row (1-based)")
	cmd.Flags().StringVar(&cfg.FactColumn, "fact-column", cfg.FactColumn, "column holding the fact id")
	cmd.Flags().StringVar(&cfg.TimestampColumn, "time-column", cfg.TimestampColumn, "column holding the review time")
	cmd.Flags().StringVar(&cfg.QualityColumn, "quality-column", cfg.QualityColumn, "column holding the recall quality")
	cmd.Flags().BoolVar(&cfg.Grades, "grades", false, "quality column holds SM-2 grades 0-5")
	return cmd
}

func newReviewCmd() *cobra.Command {
	var grade bool
	var at string
	cmd := &cobra.Command{
		Use:   "review <fact-id> <quality>",
		Short: "Record a review of a fact and reschedule it",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			quality, err := parseQualityArg(args[1], grade)
			if err != nil {
				return err
			}
			when, err := parseAt(at)
			if err != nil {
				return err
			}
			rec, err := models.NewReviewRecord(when, quality)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.reviews.Append(ctx, args[0], rec); err != nil {
				return err
			}
			s, err := a.scheduler.Reschedule(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: repetition %d, next review %s\n",
				s.FactID, s.RepetitionCount, s.NextReviewAt.UTC().Format(time.RFC3339))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&grade, "grade", false, "quality is an SM-2 grade 0-5")
	cmd.Flags().StringVar(&at, "at", "", "review time (RFC3339, default now)")
	return cmd
}

func newPredictCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "predict <fact-id>",
		Short: "Predict recall quality of a fact",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			when, err := parseAt(at)
			if err != nil {
				return err
			}
			history, err := a.reviews.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			plan, err := scheduler.PlanFor(a.engine, history, when)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "fact\t%s\n", args[0])
			fmt.Fprintf(w, "reviews\t%d\n", len(history))
			fmt.Fprintf(w, "predicted quality\t%.4f\n", plan.PredictedQuality)
			fmt.Fprintf(w, "half-life\t%s\n", plan.HalfLife)
			fmt.Fprintf(w, "repetition count\t%d\n", plan.RepetitionCount)
			fmt.Fprintf(w, "next review\t%s\n", plan.NextReviewAt.UTC().Format(time.RFC3339))
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&at, "at", "", "instant to predict at (RFC3339, default now)")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List facts due for review",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			when, err := parseAt(at)
			if err != nil {
				return err
			}
			due, err := a.schedules.Due(cmd.Context(), when)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FACT\tDUE\tREPETITION\tPREDICTED")
			for _, s := range due {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\n",
					s.FactID, s.NextReviewAt.UTC().Format(time.RFC3339), s.RepetitionCount, s.PredictedQuality)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&at, "at", "", "instant to list due facts at (RFC3339, default now)")
	return cmd
}

func parseAt(s string) (time.Time, error) {
	if s == "" {
		return scheduler.SystemClock{}.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseQualityArg(s string, grade bool) (float64, error) {
	if grade {
		g, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", spaced_repetition.ErrInvalidGrade, s)
		}
		return spaced_repetition.QualityResponse(g).Quality()
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quality %q: %w", s, err)
	}
	return q, nil
}
