package strategy

import (
	"fmt"
	"math"

	"Phoenix/internal/model"
)

const (
	// minPrice floors the current price when computing the add premium.
	minPrice = 1e-6

	supplementBaseRisk     = 40.0
	supplementExposureWarn = 30.0
	swapBaseRisk           = 35.0
	holdRiskUnderwater     = 32.0
	holdRiskAboveWater     = 24.0
)

// simulateSupplement adds addQty shares at addPrice and re-averages the cost.
// Weight: exposure ×0.8, add premium ×1.2, add discount ×0.6
func simulateSupplement(pos model.Position, currentPrice float64, addQty int64, addPrice float64) model.SimulationResult {
	oldQty := float64(pos.Quantity)
	newQty := oldQty + float64(addQty)
	newCost := (pos.CostPrice*oldQty + float64(addQty)*addPrice) / newQty

	profitLoss := model.Round2((currentPrice - newCost) * newQty)

	// An empty position becomes entirely new exposure.
	exposureChangePct := 100.0
	if oldQty > 0 {
		exposureChangePct = model.Round2((newQty - oldQty) / oldQty * 100)
	}

	warnings := []string{}
	if exposureChangePct > supplementExposureWarn {
		warnings = append(warnings, fmt.Sprintf("补仓使风险敞口增加 %.2f%%", exposureChangePct))
	}
	if addPrice > currentPrice {
		warnings = append(warnings, "在更高价格补仓恐提高回本难度")
	}

	premiumPct := model.Round2((addPrice - currentPrice) / math.Max(currentPrice, minPrice) * 100)
	risk := supplementBaseRisk +
		exposureChangePct*0.8 +
		math.Max(0, premiumPct)*1.2 -
		math.Max(0, -premiumPct)*0.6

	var profitLossPct float64
	if basis := newCost * newQty; basis != 0 {
		profitLossPct = model.Round2(profitLoss / basis * 100)
	}

	return model.SimulationResult{
		BreakEvenPrice:    model.Round4(newCost),
		ProfitLoss:        profitLoss,
		ProfitLossPct:     profitLossPct,
		ExposureChangePct: exposureChangePct,
		Curve:             Curve(pos.With(newCost, pos.Quantity+addQty), currentPrice),
		Warnings:          warnings,
		RiskCoefficient:   model.Round2(model.Clamp(5, 95, risk)),
		TargetPrice:       model.Round4(newCost * 1.15),
		StopPrice:         model.Round4(newCost * 0.85),
	}
}

// simulateSwap sells sellQty shares. The cost basis of the remainder is unchanged
// and the target symbol is not modeled.
// Weight: reduced exposure ×0.5
func simulateSwap(pos model.Position, currentPrice float64, sellQty int64) model.SimulationResult {
	remainQty := pos.Quantity - sellQty
	if remainQty < 0 {
		remainQty = 0
	}

	var reducedExposurePct float64
	if pos.Quantity > 0 {
		reducedExposurePct = model.Round2(float64(sellQty) / float64(pos.Quantity) * 100)
	}

	remainPnl := model.Round2((currentPrice - pos.CostPrice) * float64(remainQty))

	warnings := []string{}
	if remainQty == 0 {
		warnings = append(warnings, "完全退出：请确保换入标的与风险承受一致")
	}

	var profitLossPct float64
	if basis := pos.CostPrice * float64(max(remainQty, 1)); basis != 0 {
		profitLossPct = model.Round2(remainPnl / basis * 100)
	}

	return model.SimulationResult{
		BreakEvenPrice:    pos.CostPrice,
		ProfitLoss:        remainPnl,
		ProfitLossPct:     profitLossPct,
		ExposureChangePct: -reducedExposurePct,
		Curve:             Curve(pos.With(pos.CostPrice, remainQty), currentPrice),
		Warnings:          warnings,
		RiskCoefficient:   model.Round2(model.Clamp(5, 95, swapBaseRisk-reducedExposurePct*0.5)),
		TargetPrice:       model.Round4(pos.CostPrice * 1.12),
		StopPrice:         model.Round4(pos.CostPrice * 0.9),
	}
}

// simulateHold keeps the position as is.
func simulateHold(pos model.Position, currentPrice float64) model.SimulationResult {
	profitLoss := PnLAtPrice(pos, currentPrice)

	risk := holdRiskAboveWater
	if profitLoss < 0 {
		risk = holdRiskUnderwater
	}

	return model.SimulationResult{
		BreakEvenPrice:    pos.CostPrice,
		ProfitLoss:        profitLoss,
		ProfitLossPct:     PnLPct(pos, currentPrice),
		ExposureChangePct: 0,
		Curve:             Curve(pos, currentPrice),
		Warnings:          []string{},
		RiskCoefficient:   risk,
		TargetPrice:       model.Round4(pos.CostPrice * 1.1),
		StopPrice:         model.Round4(pos.CostPrice * 0.92),
	}
}
