package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"Phoenix/internal/model"
	"Phoenix/internal/plan"
	"Phoenix/internal/store"
	"Phoenix/internal/strategy"
)

const (
	// DefaultSupplementQty is the number of shares a default supplement adds.
	DefaultSupplementQty = 100
	// DefaultSwapTarget is the symbol a default swap rotates into.
	DefaultSwapTarget = "MSFT"

	reviewNote = "完成计划保存，进入闭环。"
)

// defaultAttribution is a fixed illustrative breakdown until realized trades are tracked.
var defaultAttribution = model.Attribution{Beta: 50, Alpha: 30, Emotion: 20, Execution: 70}

// ErrInvalidPosition is returned when the raw position cannot be coerced.
var ErrInvalidPosition = errors.New("invalid position")

// Diagnoser produces a diagnostics snapshot for a position.
type Diagnoser interface {
	Diagnose(ctx context.Context, pos model.Position) model.Diagnostics
}

// RawPosition is unvalidated user input.
type RawPosition struct {
	Symbol    string
	CostPrice string
	Quantity  string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock overrides the time source used for review timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// Workflow drives one session through diagnose → simulate → plan → review.
// It is not safe for concurrent use; callers serialize transitions.
type Workflow struct {
	session   Session
	diagnoser Diagnoser
	store     store.Store
	now       func() time.Time
	log       zerolog.Logger
}

// New starts a fresh session.
func New(diagnoser Diagnoser, st store.Store, log zerolog.Logger, opts ...Option) *Workflow {
	if st == nil {
		st = store.NewNoopStore()
	}
	w := &Workflow{
		session:   newSession(),
		diagnoser: diagnoser,
		store:     st,
		now:       time.Now,
		log:       log.With().Str("component", "workflow").Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot returns a copy of the session state.
func (w *Workflow) Snapshot() Session {
	return w.session.clone()
}

// Stage returns the current stage.
func (w *Workflow) Stage() model.Stage {
	return w.session.Stage
}

// Reset discards the session. Persisted history is untouched.
func (w *Workflow) Reset() {
	w.session = newSession()
}

// ParsePosition normalizes the symbol and coerces the numeric fields.
func ParsePosition(raw RawPosition) (model.Position, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))
	if symbol == "" {
		return model.Position{}, fmt.Errorf("%w: empty symbol", ErrInvalidPosition)
	}

	cost, err := parseNonNegative(raw.CostPrice)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: cost price: %v", ErrInvalidPosition, err)
	}
	qty, err := parseNonNegative(raw.Quantity)
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: quantity: %v", ErrInvalidPosition, err)
	}

	return model.Position{
		Symbol:    symbol,
		CostPrice: cost,
		Quantity:  int64(math.Trunc(qty)),
	}, nil
}

func parseNonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("must be a non-negative number, got %q", s)
	}
	return v, nil
}

// RunDiagnosis replaces the current diagnosis. The stage stays at diagnose.
func (w *Workflow) RunDiagnosis(ctx context.Context, raw RawPosition) (*model.Diagnostics, error) {
	pos, err := ParsePosition(raw)
	if err != nil {
		return nil, err
	}

	diag := w.diagnoser.Diagnose(ctx, pos)
	w.session.Diagnostics = &diag
	w.session.clearDerived()
	w.session.Stage = model.StageDiagnose

	w.log.Info().Str("symbol", pos.Symbol).Float64("cost", pos.CostPrice).Int64("qty", pos.Quantity).
		Msg("diagnosis stored")
	d := diag
	return &d, nil
}

// AdvanceToSimulate moves to the simulate stage. It is a no-op without a diagnosis.
func (w *Workflow) AdvanceToSimulate() bool {
	if w.session.Diagnostics == nil {
		return false
	}
	w.session.Stage = model.StageSimulate
	return true
}

// DefaultParams returns the defaults for kind derived from the current
// diagnosis without selecting them. Unknown kinds map to hold. It reports
// false without a diagnosis.
func (w *Workflow) DefaultParams(kind model.StrategyKind) (model.StrategyParams, bool) {
	diag := w.session.Diagnostics
	if diag == nil {
		return nil, false
	}

	switch kind {
	case model.KindSupplement:
		return model.SupplementParams{
			AddQuantity: DefaultSupplementQty,
			AddPrice:    model.Round2(diag.CurrentPrice() * 0.95),
		}, true
	case model.KindSwap:
		return model.SwapParams{
			SellQuantity: int64(math.Floor(float64(diag.Position.Quantity) * 0.3)),
			TargetSymbol: DefaultSwapTarget,
		}, true
	default:
		return model.HoldParams{}, true
	}
}

// SelectStrategy replaces the strategy with the defaults for kind. It is a
// no-op without a diagnosis.
func (w *Workflow) SelectStrategy(kind model.StrategyKind) (model.StrategyParams, bool) {
	params, ok := w.DefaultParams(kind)
	if !ok {
		return nil, false
	}
	w.setStrategy(params)
	return params, true
}

// SetStrategy replaces the strategy with caller-supplied parameters.
func (w *Workflow) SetStrategy(params model.StrategyParams) error {
	if params == nil {
		return fmt.Errorf("%w: nil params", model.ErrInvalidStrategy)
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if w.session.Diagnostics == nil {
		return ErrNotDiagnosed
	}
	w.setStrategy(params)
	return nil
}

// ErrNotDiagnosed is returned by SetStrategy before any diagnosis.
var ErrNotDiagnosed = errors.New("no diagnosis yet")

func (w *Workflow) setStrategy(params model.StrategyParams) {
	w.session.Strategy = params
	w.session.Simulation = nil
	w.session.Plan = nil
	w.log.Debug().Str("kind", string(params.Kind())).Msg("strategy selected")
}

// RunSimulation simulates the selected strategy and moves to the plan stage.
// It is a no-op unless both a diagnosis and a strategy are present.
func (w *Workflow) RunSimulation() (*model.SimulationResult, bool) {
	diag := w.session.Diagnostics
	if diag == nil || w.session.Strategy == nil {
		return nil, false
	}

	res := strategy.Simulate(diag.Position, diag.Quote, w.session.Strategy)
	w.session.Simulation = &res
	w.session.Plan = nil
	w.session.Stage = model.StagePlan

	w.log.Info().
		Str("symbol", diag.Symbol).
		Str("kind", string(w.session.Strategy.Kind())).
		Float64("pnl", res.ProfitLoss).
		Float64("risk", res.RiskCoefficient).
		Msg("simulation complete")
	r := res
	return &r, true
}

// SavePlan builds the plan, prepends a review record and persists the
// session. It aborts without any state change when no simulation exists.
// Persistence failures are logged; the in-memory session is still updated.
func (w *Workflow) SavePlan(ctx context.Context) (*model.ReviewRecord, bool) {
	var pos *model.Position
	if w.session.Diagnostics != nil {
		p := w.session.Diagnostics.Position
		pos = &p
	}
	execPlan, ok := plan.Build(pos, w.session.Simulation)
	if !ok {
		return nil, false
	}

	decision := model.KindHold
	if w.session.Strategy != nil {
		decision = w.session.Strategy.Kind()
	}
	rec := model.ReviewRecord{
		ID:          uuid.New().String(),
		Timestamp:   w.now(),
		Symbol:      pos.Symbol,
		Decision:    decision,
		ResultPnl:   w.session.Simulation.ProfitLoss,
		Attribution: defaultAttribution,
		Notes:       reviewNote,
	}

	w.session.Plan = execPlan
	w.session.Reviews = append([]model.ReviewRecord{rec}, w.session.Reviews...)
	w.session.Stage = model.StageReview

	w.persist(ctx)

	w.log.Info().Str("id", rec.ID).Str("symbol", rec.Symbol).Str("decision", string(rec.Decision)).
		Float64("pnl", rec.ResultPnl).Msg("plan saved")
	return &rec, true
}

func (w *Workflow) persist(ctx context.Context) {
	records := []struct {
		key   string
		value any
	}{
		{store.KeyReviews, w.session.Reviews},
		{store.KeyLastPlan, w.session.Plan},
		{store.KeyLastDiagnostics, w.session.Diagnostics},
		{store.KeyLastSimulation, w.session.Simulation},
	}
	for _, r := range records {
		if err := store.SaveJSON(ctx, w.store, r.key, r.value); err != nil {
			w.log.Error().Err(err).Str("key", r.key).Msg("persist failed, keeping in-memory state")
		}
	}
}

// LoadHistory replaces the in-memory history with the persisted one. Missing
// or unreadable history leaves an empty history.
func (w *Workflow) LoadHistory(ctx context.Context) []model.ReviewRecord {
	var reviews []model.ReviewRecord
	err := store.LoadJSON(ctx, w.store, store.KeyReviews, &reviews)
	switch {
	case errors.Is(err, store.ErrNotFound):
		reviews = nil
	case err != nil:
		w.log.Warn().Err(err).Msg("history unreadable, starting empty")
		reviews = nil
	}
	if reviews == nil {
		reviews = []model.ReviewRecord{}
	}
	w.session.Reviews = reviews
	return append([]model.ReviewRecord{}, reviews...)
}
