package model

// CurvePoint is the P/L of a position at one scenario price.
type CurvePoint struct {
	Price float64 `json:"price"`
	PnL   float64 `json:"pnl"`
}

// SimulationResult is the projected outcome of a strategy.
type SimulationResult struct {
	BreakEvenPrice    float64      `json:"break_even_price"`
	ProfitLoss        float64      `json:"profit_loss"`         // at current price
	ProfitLossPct     float64      `json:"profit_loss_pct"`     // relative to total cost
	ExposureChangePct float64      `json:"exposure_change_pct"` // positive = more capital at risk
	Curve             []CurvePoint `json:"curve"`
	Warnings          []string     `json:"warnings"`
	RiskCoefficient   float64      `json:"risk_coefficient"` // 5 ~ 95
	TargetPrice       float64      `json:"target_price"`
	StopPrice         float64      `json:"stop_price"`
}
