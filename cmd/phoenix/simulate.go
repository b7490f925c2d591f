package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"Phoenix/internal/collector"
	"Phoenix/internal/model"
	"Phoenix/internal/notifier"
	"Phoenix/internal/workflow"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Diagnose a position, simulate a strategy and print the plan",
	Long: `Simulate runs one pass of diagnose → simulate → plan and prints the report.

Strategies:
  - supplement: buy --add-qty more shares at --add-price (default 100 @ 95% of price)
  - swap: sell --sell-qty shares into --target (default 30% into MSFT)
  - hold: keep the position

Example:
  phoenix simulate --symbol AAPL --cost 120 --qty 100 --strategy supplement --add-qty 100 --add-price 114`,
	RunE: runSimulate,
}

var (
	simSymbol   string
	simCost     float64
	simQty      int64
	simStrategy string
	simAddQty   int64
	simAddPrice float64
	simSellQty  int64
	simTarget   string
	simSave     bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simSymbol, "symbol", "s", "", "ticker symbol (required)")
	simulateCmd.Flags().Float64Var(&simCost, "cost", 0, "average cost per share (required)")
	simulateCmd.Flags().Int64Var(&simQty, "qty", 0, "shares held (required)")
	simulateCmd.Flags().StringVar(&simStrategy, "strategy", "hold", "strategy (supplement, swap, hold)")

	simulateCmd.Flags().Int64Var(&simAddQty, "add-qty", 0, "supplement: shares to add")
	simulateCmd.Flags().Float64Var(&simAddPrice, "add-price", 0, "supplement: price to add at")
	simulateCmd.Flags().Int64Var(&simSellQty, "sell-qty", -1, "swap: shares to sell")
	simulateCmd.Flags().StringVar(&simTarget, "target", "", "swap: symbol to rotate into")
	simulateCmd.Flags().BoolVar(&simSave, "save", false, "save the plan to review history")

	simulateCmd.MarkFlagRequired("symbol")
	simulateCmd.MarkFlagRequired("cost")
	simulateCmd.MarkFlagRequired("qty")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg, log)
	defer st.Close()

	ctx := context.Background()
	wf := workflow.New(collector.NewCollector(newProvider(cfg, log), cfg.DataSource.Timeout, log), st, log)
	wf.LoadHistory(ctx)

	diag, err := wf.RunDiagnosis(ctx, workflow.RawPosition{
		Symbol:    simSymbol,
		CostPrice: strconv.FormatFloat(simCost, 'f', -1, 64),
		Quantity:  strconv.FormatInt(simQty, 10),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, notifier.FormatDiagnostics(diag))

	wf.AdvanceToSimulate()
	params, _ := wf.SelectStrategy(model.ParseStrategyKind(simStrategy))
	if custom, changed := strategyFromFlags(params, cmd); changed {
		if err := wf.SetStrategy(custom); err != nil {
			return err
		}
		params = custom
	}

	sim, ok := wf.RunSimulation()
	if !ok {
		return fmt.Errorf("simulation did not run")
	}
	fmt.Fprintln(out, notifier.FormatSimulation(params, sim))

	if simSave {
		rec, ok := wf.SavePlan(ctx)
		if !ok {
			return fmt.Errorf("plan not saved")
		}
		fmt.Fprintln(out, notifier.FormatPlan(wf.Snapshot().Plan))
		fmt.Fprintln(out, notifier.FormatReview(*rec))
	}
	return nil
}

// strategyFromFlags applies the explicitly set strategy flags over the defaults.
func strategyFromFlags(p model.StrategyParams, cmd *cobra.Command) (model.StrategyParams, bool) {
	flags := cmd.Flags()
	switch d := p.(type) {
	case model.SupplementParams:
		changed := false
		if flags.Changed("add-qty") {
			d.AddQuantity, changed = simAddQty, true
		}
		if flags.Changed("add-price") {
			d.AddPrice, changed = simAddPrice, true
		}
		return d, changed
	case model.SwapParams:
		changed := false
		if flags.Changed("sell-qty") {
			d.SellQuantity, changed = simSellQty, true
		}
		if flags.Changed("target") {
			d.TargetSymbol, changed = simTarget, true
		}
		return d, changed
	default:
		return p, false
	}
}
