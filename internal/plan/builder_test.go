package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Phoenix/internal/model"
	"Phoenix/internal/strategy"
)

func TestBuild_NotReady(t *testing.T) {
	pos := &model.Position{Symbol: "AAPL", CostPrice: 120, Quantity: 100}
	sim := &model.SimulationResult{BreakEvenPrice: 120}

	p, ok := Build(nil, sim)
	assert.False(t, ok)
	assert.Nil(t, p)

	p, ok = Build(pos, nil)
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestBuild_DefaultPolicy(t *testing.T) {
	pos := &model.Position{Symbol: "AAPL", CostPrice: 120, Quantity: 100}
	sim := &model.SimulationResult{BreakEvenPrice: 120}

	p, ok := Build(pos, sim)
	require.True(t, ok)
	require.Len(t, p.Actions, 2)

	buy, sell := p.Actions[0], p.Actions[1]
	assert.Equal(t, model.ActionBuy, buy.Action)
	assert.Equal(t, int64(20), buy.Quantity)
	assert.Equal(t, 108.0, buy.TriggerPrice)
	assert.Equal(t, "补仓 20 股", buy.Label)

	assert.Equal(t, model.ActionSell, sell.Action)
	assert.Equal(t, int64(30), sell.Quantity)
	assert.Equal(t, 132.0, sell.TriggerPrice)
	assert.Equal(t, "减仓 30 股", sell.Label)

	assert.Equal(t, 102.0, p.StopLoss)
	assert.Equal(t, 138.0, p.TakeProfit)
}

func TestBuild_FloorsQuantities(t *testing.T) {
	pos := &model.Position{Symbol: "X", CostPrice: 10, Quantity: 7}
	p, ok := Build(pos, &model.SimulationResult{BreakEvenPrice: 10})
	require.True(t, ok)
	assert.Equal(t, int64(1), p.Actions[0].Quantity)
	assert.Equal(t, int64(2), p.Actions[1].Quantity)
}

func TestBuild_TriggerOrdering(t *testing.T) {
	pos := model.Position{Symbol: "AAPL", CostPrice: 120, Quantity: 100}
	strategies := []model.StrategyParams{
		model.HoldParams{},
		model.SupplementParams{AddQuantity: 100, AddPrice: 114},
		model.SwapParams{SellQuantity: 30},
	}
	for _, s := range strategies {
		sim := strategy.Simulate(pos, &model.Quote{Price: 126}, s)
		p, ok := Build(&pos, &sim)
		require.True(t, ok)
		require.Len(t, p.Actions, 2)
		assert.Greater(t, p.Actions[1].TriggerPrice, sim.BreakEvenPrice, s.Kind())
		assert.Greater(t, sim.BreakEvenPrice, p.Actions[0].TriggerPrice, s.Kind())
		assert.Less(t, p.StopLoss, p.TakeProfit)
	}
}

func TestPolicy_Custom(t *testing.T) {
	policy := Policy{BuyQtyRatio: 0.5, BuyTrigger: 0.8, SellQtyRatio: 1, SellTrigger: 1.2, StopLossRatio: 0.7, TakeProfitRatio: 1.3}
	p, ok := policy.Build(&model.Position{Quantity: 10}, &model.SimulationResult{BreakEvenPrice: 50})
	require.True(t, ok)
	assert.Equal(t, int64(5), p.Actions[0].Quantity)
	assert.Equal(t, 40.0, p.Actions[0].TriggerPrice)
	assert.Equal(t, int64(10), p.Actions[1].Quantity)
	assert.Equal(t, 60.0, p.Actions[1].TriggerPrice)
	assert.Equal(t, 35.0, p.StopLoss)
	assert.Equal(t, 65.0, p.TakeProfit)
}
