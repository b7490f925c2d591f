package plan

import (
	"fmt"
	"math"

	"Phoenix/internal/model"
)

// Policy holds the fixed ratios used to derive a plan from the break-even price.
type Policy struct {
	BuyQtyRatio     float64 // share of holdings to re-buy on a dip
	BuyTrigger      float64 // × break-even
	SellQtyRatio    float64 // share of holdings to take profit on
	SellTrigger     float64 // × break-even
	StopLossRatio   float64 // × break-even
	TakeProfitRatio float64 // × break-even
}

// DefaultPolicy: buy 20% at -10%, sell 30% at +10%,
// stop at -15%, take profit at +15%.
var DefaultPolicy = Policy{
	BuyQtyRatio:     0.2,
	BuyTrigger:      0.9,
	SellQtyRatio:    0.3,
	SellTrigger:     1.1,
	StopLossRatio:   0.85,
	TakeProfitRatio: 1.15,
}

// Build derives an execution plan with DefaultPolicy.
// It reports false when either input is missing.
func Build(pos *model.Position, sim *model.SimulationResult) (*model.ExecutionPlan, bool) {
	return DefaultPolicy.Build(pos, sim)
}

// Build derives a BUY-the-dip and a partial SELL action around the simulated break-even.
func (p Policy) Build(pos *model.Position, sim *model.SimulationResult) (*model.ExecutionPlan, bool) {
	if pos == nil || sim == nil {
		return nil, false
	}

	be := sim.BreakEvenPrice
	qty := float64(pos.Quantity)
	buyQty := int64(math.Floor(qty * p.BuyQtyRatio))
	sellQty := int64(math.Floor(qty * p.SellQtyRatio))

	return &model.ExecutionPlan{
		Actions: []model.PlanAction{
			{
				Label:        fmt.Sprintf("补仓 %d 股", buyQty),
				TriggerPrice: model.Round2(be * p.BuyTrigger),
				Action:       model.ActionBuy,
				Quantity:     buyQty,
			},
			{
				Label:        fmt.Sprintf("减仓 %d 股", sellQty),
				TriggerPrice: model.Round2(be * p.SellTrigger),
				Action:       model.ActionSell,
				Quantity:     sellQty,
			},
		},
		StopLoss:   model.Round2(be * p.StopLossRatio),
		TakeProfit: model.Round2(be * p.TakeProfitRatio),
	}, true
}
