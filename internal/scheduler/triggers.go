package scheduler

import (
	"fmt"

	"Phoenix/internal/model"
)

// Trigger is a plan level the price has reached.
type Trigger struct {
	Label string
	Price float64
}

// Key identifies the trigger within one plan.
func (t Trigger) Key() string {
	return fmt.Sprintf("%s@%.4f", t.Label, t.Price)
}

// Triggers returns the plan levels hit at price: BUY actions and the stop-loss
// at or below, SELL actions and the take-profit at or above.
func Triggers(p *model.ExecutionPlan, price float64) []Trigger {
	var hits []Trigger
	for _, a := range p.Actions {
		switch {
		case a.Action == model.ActionBuy && price <= a.TriggerPrice:
			hits = append(hits, Trigger{Label: a.Label, Price: a.TriggerPrice})
		case a.Action == model.ActionSell && price >= a.TriggerPrice:
			hits = append(hits, Trigger{Label: a.Label, Price: a.TriggerPrice})
		}
	}
	if p.StopLoss > 0 && price <= p.StopLoss {
		hits = append(hits, Trigger{Label: "止损", Price: p.StopLoss})
	}
	if p.TakeProfit > 0 && price >= p.TakeProfit {
		hits = append(hits, Trigger{Label: "止盈", Price: p.TakeProfit})
	}
	return hits
}
