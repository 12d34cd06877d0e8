package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [applicant.json]",
		Short: "Classify an applicant's transactions without scoring",
		Long: `Classify runs only the transaction classification stage and prints the
per-transaction audit: category, subcategory, match method and confidence.
Useful for inspecting why a particular decision came out the way it did.`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	app, err := loadApplicant(args[0])
	if err != nil {
		return err
	}

	outcome, err := pipeline.ScoreApplicant(cmd.Context(), app)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAMOUNT\tDESCRIPTION\tCATEGORY\tSUBCATEGORY\tMETHOD\tCONF\tWEIGHT")
	for _, ct := range outcome.Classified {
		date := "-"
		if ct.Transaction.HasDate() {
			date = ct.Transaction.Date.Format("2006-01-02")
		}
		desc := ct.Transaction.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\t%s\t%.2f\t%.1f\n",
			date,
			ct.Transaction.Amount,
			desc,
			ct.Result.Category,
			ct.Result.Subcategory,
			ct.Result.Method,
			ct.Result.Confidence,
			ct.Result.Weight)
	}
	return w.Flush()
}
