package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"Phoenix/internal/notifier"
	"Phoenix/internal/review"
	"Phoenix/internal/workflow"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print saved reviews and their summary",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max records to print (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print records and summary as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg, log)
	defer st.Close()

	records := workflow.New(nil, st, log).LoadHistory(context.Background())
	summary := review.Summarize(records)
	out := cmd.OutOrStdout()

	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"records": records, "summary": summary})
	}
	fmt.Fprintln(out, notifier.FormatHistory(records, summary, historyLimit))
	return nil
}
