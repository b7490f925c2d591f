package model

// ActionType is the side of a plan action.
type ActionType string

const (
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
)

// PlanAction is one conditional order in an execution plan.
type PlanAction struct {
	Label        string     `json:"label"`
	TriggerPrice float64    `json:"trigger_price"`
	Action       ActionType `json:"action"`
	Quantity     int64      `json:"quantity"`
}

// ExecutionPlan is the ordered list of actions plus overall exits.
type ExecutionPlan struct {
	Actions    []PlanAction `json:"actions"`
	StopLoss   float64      `json:"stop_loss"`
	TakeProfit float64      `json:"take_profit"`
}
