package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
	"github.com/PratikDhanave/habit-analytics-service/internal/config"
	"github.com/PratikDhanave/habit-analytics-service/internal/logging"
	"github.com/PratikDhanave/habit-analytics-service/internal/progress"
	"github.com/PratikDhanave/habit-analytics-service/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "habitctl",
		Short:         "Operate the habit analytics store from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newGraceCmd())
	return root
}

// app is what every subcommand needs: a configured store and logger.
type app struct {
	store  store.Store
	logger *zap.Logger
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return &app{store: st, logger: logger}, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var (
		userID int64
		today  string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a user's progress report as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseToday(today)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := progress.NewService(a.store, a.logger).Report(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&today, "today", "", "report date as YYYY-MM-DD (default: local today)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newGraceCmd() *cobra.Command {
	var (
		userID int64
		today  string
	)
	cmd := &cobra.Command{
		Use:   "grace",
		Short: "Print Day-0 and grace-day state for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseToday(today)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			svc := progress.NewService(a.store, a.logger)
			hasAny, err := svc.HasAnyCompletion(cmd.Context(), userID)
			if err != nil {
				return err
			}
			grace, err := svc.IsGraceDay(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]bool{"day0": !hasAny, "grace_day": grace})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&today, "today", "", "date as YYYY-MM-DD (default: local today)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func parseToday(s string) (time.Time, error) {
	if s == "" {
		return analytics.DateOf(time.Now()), nil
	}
	d, err := analytics.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today must be YYYY-MM-DD: %w", err)
	}
	return d, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
