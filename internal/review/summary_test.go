package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Phoenix/internal/model"
)

func rec(decision model.StrategyKind, pnl float64) model.ReviewRecord {
	return model.ReviewRecord{Symbol: "AAPL", Decision: decision, ResultPnl: pnl}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.MeanPnl)
	assert.NotNil(t, s.ByDecision)
	assert.Empty(t, s.ByDecision)
}

func TestSummarize_Single(t *testing.T) {
	s := Summarize([]model.ReviewRecord{rec(model.KindHold, 600)})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 100.0, s.WinRate)
	assert.Equal(t, 600.0, s.MeanPnl)
	assert.Equal(t, 0.0, s.StdDevPnl)
	assert.Equal(t, 600.0, s.BestPnl)
	assert.Equal(t, 600.0, s.WorstPnl)
}

func TestSummarize_Mixed(t *testing.T) {
	records := []model.ReviewRecord{
		rec(model.KindHold, 600),
		rec(model.KindSupplement, 1800),
		rec(model.KindSwap, 420),
		rec(model.KindHold, -2000),
		rec(model.KindHold, 0),
	}
	s := Summarize(records)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 60.0, s.WinRate)
	assert.Equal(t, 820.0, s.TotalPnl)
	assert.Equal(t, 164.0, s.MeanPnl)
	// sample stddev of {600, 1800, 420, -2000, 0}
	assert.InDelta(t, 1382.20, s.StdDevPnl, 0.01)
	assert.Equal(t, 1800.0, s.BestPnl)
	assert.Equal(t, -2000.0, s.WorstPnl)
	assert.Equal(t, map[model.StrategyKind]int{
		model.KindHold:       3,
		model.KindSupplement: 1,
		model.KindSwap:       1,
	}, s.ByDecision)
}
