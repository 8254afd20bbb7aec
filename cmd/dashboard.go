package cmd

import (
	"context"
	"fmt"

	"data-curator/core/config"
	"data-curator/core/database"
	"data-curator/core/logger"
	"data-curator/core/tablestore"
	"data-curator/feature/dashboard"

	"github.com/spf13/cobra"
)

// dashboardCmd is the parent command for dashboard operations.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Manage the consortium dashboard tables",
}

// dashboardRefreshCmd recomputes the dashboard tables once.
var dashboardRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute db_counts and data_completeness from the clinical store",
	RunE:  runDashboardRefresh,
}

func init() {
	dashboardCmd.AddCommand(dashboardRefreshCmd)
	RootCmd.AddCommand(dashboardCmd)
}

func runDashboardRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := tablestore.New(db, l)

	// No caching for a one-shot refresh; always read fresh data.
	cache := tablestore.NewSnapshotCache(store, 0)

	updater := dashboard.NewUpdater(cache, store, l)
	if err := updater.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh dashboard tables: %w", err)
	}

	l.Info("Dashboard tables refreshed")
	return nil
}
