package strategy

import "Phoenix/internal/model"

// curveMultipliers are the scenario prices relative to the center price.
var curveMultipliers = []float64{0.8, 0.9, 1.0, 1.1, 1.2}

// Simulate projects the outcome of applying strategy to pos at the quoted price.
// A nil quote falls back to the cost price. Variants are matched by value;
// anything else, including nil, is simulated as hold. Simulate is pure and
// safe for concurrent use.
func Simulate(pos model.Position, quote *model.Quote, strategy model.StrategyParams) model.SimulationResult {
	currentPrice := model.CurrentPrice(pos, quote)

	switch s := strategy.(type) {
	case model.SupplementParams:
		// Non-positive adds would divide by zero on an empty position.
		if s.AddQuantity <= 0 {
			return simulateHold(pos, currentPrice)
		}
		return simulateSupplement(pos, currentPrice, s.AddQuantity, s.AddPrice)
	case model.SwapParams:
		return simulateSwap(pos, currentPrice, s.SellQuantity)
	case model.HoldParams:
		return simulateHold(pos, currentPrice)
	default:
		return simulateHold(pos, currentPrice)
	}
}

// PnLAtPrice returns the unrealized P/L of pos if the price were price.
func PnLAtPrice(pos model.Position, price float64) float64 {
	qty := float64(pos.Quantity)
	return model.Round2(price*qty - pos.CostPrice*qty)
}

// PnLPct returns the P/L at price as a percentage of the cost basis.
func PnLPct(pos model.Position, price float64) float64 {
	totalCost := pos.TotalCost()
	if totalCost == 0 {
		return 0
	}
	return model.Round2(PnLAtPrice(pos, price) / totalCost * 100)
}

// Curve evaluates pos at five scenario prices around centerPrice.
func Curve(pos model.Position, centerPrice float64) []model.CurvePoint {
	points := make([]model.CurvePoint, 0, len(curveMultipliers))
	for _, m := range curveMultipliers {
		p := centerPrice * m
		points = append(points, model.CurvePoint{
			Price: model.Round2(p),
			PnL:   PnLAtPrice(pos, p),
		})
	}
	return points
}
