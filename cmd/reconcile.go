package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"data-curator/core/config"
	"data-curator/core/database"
	"data-curator/core/logger"
	"data-curator/core/reconcile"
	"data-curator/core/rowset"
	"data-curator/core/tablestore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	reconcileKeys   string
	allowDelete     bool
	dryRunReconcile bool
	yesConfirm      bool
	auditOut        string
)

// reconcileCmd reconciles a dataset file into a store table.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <table> <file>",
	Short: "Reconcile a dataset file into a central store table",
	Long: `Reconcile a tab-separated dataset against a central store table and
apply the resulting appends, updates and (optionally) deletes.

Examples:
  # Plan only (dry-run), keyed by sample
  reconcile clinical data_clinical_supp_SAGE.txt --keys SAMPLE_ID --dry-run

  # Apply with delete extraction, interactive confirmation
  reconcile clinical data_clinical_supp_SAGE.txt --keys SAMPLE_ID --delete

  # Apply non-interactively and keep the audit CSV
  reconcile seg genie_data_cna_hg19_SAGE.seg --keys "ID,CHROM,LOC.START,LOC.END,SEG.MEAN" --yes --audit batch.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileKeys, "keys", "", "Comma-separated key columns (required)")
	reconcileCmd.Flags().BoolVar(&allowDelete, "delete", false, "Enable delete extraction (retire store rows missing from the file)")
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Plan only, never write to the store")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	reconcileCmd.Flags().StringVar(&auditOut, "audit", "", "Write the batch audit CSV to this path")
	_ = reconcileCmd.MarkFlagRequired("keys")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	table, path := args[0], args[1]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	keys := splitKeys(reconcileKeys)
	if len(keys) == 0 {
		return fmt.Errorf("--keys must name at least one column")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	newData, err := rowset.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := tablestore.New(db, l)

	snapshot, err := store.Snapshot(ctx, table)
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(l)
	batch, err := engine.Reconcile(snapshot, newData, keys, reconcile.Options{AllowDelete: allowDelete})
	if err != nil {
		return err
	}

	l.Info("Reconciliation plan",
		zap.String("table", table),
		zap.Int("appends", batch.Appends()),
		zap.Int("updates", batch.Updates()),
		zap.Int("deletes", len(batch.Deletes)),
	)

	if auditOut != "" {
		if err := writeAudit(auditOut, batch); err != nil {
			return err
		}
		l.Info("Audit CSV written", zap.String("path", auditOut))
	}

	if batch.Empty() {
		l.Info("Store already matches the file. Nothing to do.")
		return nil
	}
	if dryRunReconcile {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	if err := store.Apply(ctx, table, batch); err != nil {
		return fmt.Errorf("failed to apply batch: %w", err)
	}
	l.Info("Batch applied", zap.String("table", table))
	return nil
}

func writeAudit(path string, batch *reconcile.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := batch.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write audit CSV: %w", err)
	}
	return nil
}

func splitKeys(raw string) []string {
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm writing to the store: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
