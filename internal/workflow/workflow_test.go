package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Phoenix/internal/collector"
	"Phoenix/internal/model"
	"Phoenix/internal/store"
)

var fixedNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

func newTestWorkflow(t *testing.T, st store.Store, price float64) *Workflow {
	t.Helper()
	provider := &collector.MockProvider{Quote: &model.Quote{Symbol: "AAPL", Price: price, Currency: "USD"}}
	c := collector.NewCollector(provider, time.Second, zerolog.Nop())
	return New(c, st, zerolog.Nop(), WithClock(func() time.Time { return fixedNow }))
}

func aaplRaw() RawPosition {
	return RawPosition{Symbol: " aapl ", CostPrice: "120", Quantity: "100"}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, store.ErrNotFound }
func (failingStore) Put(context.Context, string, []byte) error   { return errors.New("disk full") }
func (failingStore) Close() error                                { return nil }

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition(RawPosition{Symbol: " tsla", CostPrice: "250.5", Quantity: "10.9"})
	require.NoError(t, err)
	assert.Equal(t, "TSLA", pos.Symbol)
	assert.Equal(t, 250.5, pos.CostPrice)
	assert.Equal(t, int64(10), pos.Quantity)

	bad := []RawPosition{
		{Symbol: "  ", CostPrice: "1", Quantity: "1"},
		{Symbol: "AAPL", CostPrice: "abc", Quantity: "1"},
		{Symbol: "AAPL", CostPrice: "1", Quantity: "-5"},
		{Symbol: "AAPL", CostPrice: "NaN", Quantity: "1"},
		{Symbol: "AAPL", CostPrice: "1", Quantity: ""},
	}
	for _, raw := range bad {
		_, err := ParsePosition(raw)
		assert.ErrorIs(t, err, ErrInvalidPosition, "%+v", raw)
	}
}

func TestRunDiagnosis(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)

	diag, err := w.RunDiagnosis(context.Background(), aaplRaw())
	require.NoError(t, err)
	assert.Equal(t, "AAPL", diag.Symbol)
	assert.Equal(t, 126.0, diag.CurrentPrice())
	assert.NotNil(t, diag.Fundamentals)
	assert.NotNil(t, diag.Sentiment)
	assert.Equal(t, model.StageDiagnose, w.Stage())
}

func TestRunDiagnosis_InvalidInputKeepsState(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)

	_, err = w.RunDiagnosis(ctx, RawPosition{Symbol: "AAPL", CostPrice: "x", Quantity: "1"})
	assert.ErrorIs(t, err, ErrInvalidPosition)
	snap := w.Snapshot()
	require.NotNil(t, snap.Diagnostics)
	assert.Equal(t, int64(100), snap.Diagnostics.Position.Quantity)
}

func TestRunDiagnosis_ClearsDerivedState(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, ok := w.SelectStrategy(model.KindHold)
	require.True(t, ok)
	_, ok = w.RunSimulation()
	require.True(t, ok)

	_, err = w.RunDiagnosis(ctx, RawPosition{Symbol: "msft", CostPrice: "300", Quantity: "5"})
	require.NoError(t, err)
	snap := w.Snapshot()
	assert.Nil(t, snap.Strategy)
	assert.Nil(t, snap.Simulation)
	assert.Nil(t, snap.Plan)
	assert.Equal(t, model.StageDiagnose, snap.Stage)
}

func TestTransitionsRequireDiagnosis(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)

	assert.False(t, w.AdvanceToSimulate())
	_, ok := w.SelectStrategy(model.KindSwap)
	assert.False(t, ok)
	assert.ErrorIs(t, w.SetStrategy(model.HoldParams{}), ErrNotDiagnosed)
	_, ok = w.RunSimulation()
	assert.False(t, ok)
	_, ok = w.SavePlan(context.Background())
	assert.False(t, ok)
	assert.Equal(t, model.StageDiagnose, w.Stage())
}

func TestSelectStrategy_Defaults(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	_, err := w.RunDiagnosis(context.Background(), aaplRaw())
	require.NoError(t, err)

	params, ok := w.SelectStrategy(model.KindSupplement)
	require.True(t, ok)
	assert.Equal(t, model.SupplementParams{AddQuantity: 100, AddPrice: 119.7}, params)

	params, ok = w.SelectStrategy(model.KindSwap)
	require.True(t, ok)
	assert.Equal(t, model.SwapParams{SellQuantity: 30, TargetSymbol: "MSFT"}, params)

	params, ok = w.SelectStrategy("martingale")
	require.True(t, ok)
	assert.Equal(t, model.HoldParams{}, params)
}

func TestDefaultParams_DoesNotSelect(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	_, ok := w.DefaultParams(model.KindHold)
	assert.False(t, ok)

	_, err := w.RunDiagnosis(context.Background(), aaplRaw())
	require.NoError(t, err)
	require.NoError(t, w.SetStrategy(model.SwapParams{SellQuantity: 10, TargetSymbol: "MSFT"}))
	_, ok = w.RunSimulation()
	require.True(t, ok)

	tests := []struct {
		kind model.StrategyKind
		want model.StrategyParams
	}{
		{model.KindSupplement, model.SupplementParams{AddQuantity: 100, AddPrice: 119.7}},
		{model.KindSwap, model.SwapParams{SellQuantity: 30, TargetSymbol: "MSFT"}},
		{model.KindHold, model.HoldParams{}},
	}
	for _, tt := range tests {
		params, ok := w.DefaultParams(tt.kind)
		require.True(t, ok, tt.kind)
		assert.Equal(t, tt.want, params, tt.kind)
	}

	snap := w.Snapshot()
	assert.Equal(t, model.SwapParams{SellQuantity: 10, TargetSymbol: "MSFT"}, snap.Strategy)
	assert.NotNil(t, snap.Simulation, "simulation survives")
	assert.Equal(t, model.StagePlan, snap.Stage)
}

func TestSetStrategy_Validates(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	_, err := w.RunDiagnosis(context.Background(), aaplRaw())
	require.NoError(t, err)

	err = w.SetStrategy(model.SupplementParams{AddQuantity: 10, AddPrice: -1})
	assert.ErrorIs(t, err, model.ErrInvalidStrategy)
	assert.ErrorIs(t, w.SetStrategy(nil), model.ErrInvalidStrategy)

	require.NoError(t, w.SetStrategy(model.SupplementParams{AddQuantity: 100, AddPrice: 114}))
	sim, ok := w.RunSimulation()
	require.True(t, ok)
	assert.Equal(t, 117.0, sim.BreakEvenPrice)
	assert.Equal(t, 1800.0, sim.ProfitLoss)
}

func TestFullFlow_Hold(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	require.True(t, w.AdvanceToSimulate())
	assert.Equal(t, model.StageSimulate, w.Stage())

	_, ok := w.SelectStrategy(model.KindHold)
	require.True(t, ok)
	sim, ok := w.RunSimulation()
	require.True(t, ok)
	assert.Equal(t, 600.0, sim.ProfitLoss)
	assert.Equal(t, 5.0, sim.ProfitLossPct)
	assert.Equal(t, model.StagePlan, w.Stage())

	rec, ok := w.SavePlan(ctx)
	require.True(t, ok)
	assert.Equal(t, model.StageReview, w.Stage())
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixedNow, rec.Timestamp)
	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, model.KindHold, rec.Decision)
	assert.Equal(t, 600.0, rec.ResultPnl)
	assert.Equal(t, model.Attribution{Beta: 50, Alpha: 30, Emotion: 20, Execution: 70}, rec.Attribution)
	assert.Equal(t, "完成计划保存，进入闭环。", rec.Notes)

	snap := w.Snapshot()
	require.NotNil(t, snap.Plan)
	assert.Equal(t, 102.0, snap.Plan.StopLoss)
	assert.Equal(t, 138.0, snap.Plan.TakeProfit)
	require.Len(t, snap.Reviews, 1)
}

func TestFullFlow_Swap(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, ok := w.SelectStrategy(model.KindSwap)
	require.True(t, ok)
	sim, ok := w.RunSimulation()
	require.True(t, ok)
	assert.Equal(t, 420.0, sim.ProfitLoss, "70 shares left at +6")

	rec, ok := w.SavePlan(ctx)
	require.True(t, ok)
	assert.Equal(t, model.KindSwap, rec.Decision)
}

func TestSavePlan_WithoutSimulation(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, ok := w.SelectStrategy(model.KindHold)
	require.True(t, ok)

	rec, ok := w.SavePlan(ctx)
	assert.False(t, ok)
	assert.Nil(t, rec)
	assert.Empty(t, w.Snapshot().Reviews)
	assert.Equal(t, model.StageDiagnose, w.Stage())
}

func TestSavePlan_AppendsMostRecentFirst(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, _ = w.SelectStrategy(model.KindHold)
	_, ok := w.RunSimulation()
	require.True(t, ok)
	first, ok := w.SavePlan(ctx)
	require.True(t, ok)

	_, _ = w.SelectStrategy(model.KindSupplement)
	_, ok = w.RunSimulation()
	require.True(t, ok)
	second, ok := w.SavePlan(ctx)
	require.True(t, ok)

	reviews := w.Snapshot().Reviews
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSavePlan_PersistsRecords(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	w := newTestWorkflow(t, st, 126)
	_, err = w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, _ = w.SelectStrategy(model.KindHold)
	_, _ = w.RunSimulation()
	rec, ok := w.SavePlan(ctx)
	require.True(t, ok)

	var reviews []model.ReviewRecord
	require.NoError(t, store.LoadJSON(ctx, st, store.KeyReviews, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, rec.ID, reviews[0].ID)

	var p model.ExecutionPlan
	require.NoError(t, store.LoadJSON(ctx, st, store.KeyLastPlan, &p))
	assert.Equal(t, 138.0, p.TakeProfit)

	var diag model.Diagnostics
	require.NoError(t, store.LoadJSON(ctx, st, store.KeyLastDiagnostics, &diag))
	assert.Equal(t, "AAPL", diag.Symbol)

	var sim model.SimulationResult
	require.NoError(t, store.LoadJSON(ctx, st, store.KeyLastSimulation, &sim))
	assert.Equal(t, 600.0, sim.ProfitLoss)

	// a fresh workflow over the same store sees the history
	fresh := newTestWorkflow(t, st, 126)
	history := fresh.LoadHistory(ctx)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
}

func TestSavePlan_StoreFailureKeepsMemoryState(t *testing.T) {
	w := newTestWorkflow(t, failingStore{}, 126)
	ctx := context.Background()

	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, _ = w.SelectStrategy(model.KindHold)
	_, _ = w.RunSimulation()

	_, ok := w.SavePlan(ctx)
	require.True(t, ok)
	assert.Len(t, w.Snapshot().Reviews, 1)
	assert.Equal(t, model.StageReview, w.Stage())
}

func TestLoadHistory_CorruptOrMissing(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	w := newTestWorkflow(t, st, 126)
	assert.Empty(t, w.LoadHistory(ctx))

	require.NoError(t, st.Put(ctx, store.KeyReviews, []byte("{broken")))
	history := w.LoadHistory(ctx)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestSnapshotIsIsolated(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	ctx := context.Background()
	_, err := w.RunDiagnosis(ctx, aaplRaw())
	require.NoError(t, err)
	_, _ = w.SelectStrategy(model.KindHold)
	_, _ = w.RunSimulation()
	_, _ = w.SavePlan(ctx)

	snap := w.Snapshot()
	snap.Reviews[0].Symbol = "HACKED"
	snap.Plan.Actions[0].Quantity = 9999
	snap.Diagnostics.Position.Quantity = 1

	again := w.Snapshot()
	assert.Equal(t, "AAPL", again.Reviews[0].Symbol)
	assert.Equal(t, int64(20), again.Plan.Actions[0].Quantity)
	assert.Equal(t, int64(100), again.Diagnostics.Position.Quantity)
}

func TestReset(t *testing.T) {
	w := newTestWorkflow(t, nil, 126)
	_, err := w.RunDiagnosis(context.Background(), aaplRaw())
	require.NoError(t, err)

	w.Reset()
	snap := w.Snapshot()
	assert.Nil(t, snap.Diagnostics)
	assert.Equal(t, model.StageDiagnose, snap.Stage)
	assert.NotNil(t, snap.Reviews)
}
