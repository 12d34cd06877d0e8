package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/storage"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [reference]",
		Short: "List persisted scoring runs for an applicant reference",
		Args:  cobra.ExactArgs(1),
		RunE:  runRuns,
	}
	cmd.Flags().String("db", "", "sqlite database path (overrides config)")
	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		return fmt.Errorf("no database configured; pass --db or set database.path")
	}

	store, err := storage.NewStore(cmd.Context(), config.ExpandPath(dbPath))
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListRuns(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No scoring runs found for %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCREATED\tDECISION\tSCORE\tREQUESTED\tOFFERED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.2f x %dm\t%.2f x %dm\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Decision,
			rec.Score,
			rec.RequestedAmount, rec.RequestedTerm,
			rec.Offer.Principal, rec.Offer.TermMonths)
	}
	return w.Flush()
}
