package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"Phoenix/internal/collector"
	"Phoenix/internal/model"
	"Phoenix/internal/notifier"
	"Phoenix/internal/store"
	"Phoenix/internal/workflow"
)

// KeyWatchState records which plan triggers have already been alerted.
const KeyWatchState = "phoenix_watch_state"

// Notifier delivers messages with retry.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// watchState is persisted so a restart does not repeat alerts for the same plan.
type watchState struct {
	PlanID string   `json:"plan_id"`
	Fired  []string `json:"fired"`
}

// Scheduler owns the cron watch job and serializes Telegram commands onto the workflow.
type Scheduler struct {
	Cron     *cron.Cron
	Workflow *workflow.Workflow
	Quotes   collector.Provider
	Notifier Notifier
	Store    store.Store
	Ctx      context.Context

	// QuoteTimeout bounds the watch job's quote fetch.
	QuoteTimeout time.Duration

	mu  sync.Mutex // guards Workflow and the watch state
	now func() time.Time
	log zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, wf *workflow.Workflow, quotes collector.Provider, n Notifier, st store.Store, log zerolog.Logger) *Scheduler {
	if st == nil {
		st = store.NewNoopStore()
	}
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Workflow:     wf,
		Quotes:       quotes,
		Notifier:     n,
		Store:        st,
		Ctx:          ctx,
		QuoteTimeout: collector.DefaultTimeout,
		now:          time.Now,
		log:          log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the plan watch task.
func (s *Scheduler) RegisterAll(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunWatchNow executes the watch task immediately.
func (s *Scheduler) RunWatchNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.Ctx
	var p model.ExecutionPlan
	if err := store.LoadJSON(ctx, s.Store, store.KeyLastPlan, &p); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error().Err(err).Msg("load last plan")
		}
		return
	}
	var diag model.Diagnostics
	if err := store.LoadJSON(ctx, s.Store, store.KeyLastDiagnostics, &diag); err != nil || diag.Symbol == "" {
		s.log.Warn().Err(err).Msg("last plan has no diagnostics, skipping watch")
		return
	}

	qctx, cancel := context.WithTimeout(ctx, s.QuoteTimeout)
	quote, err := s.Quotes.FetchQuote(qctx, diag.Symbol)
	cancel()
	if err != nil || quote == nil {
		s.log.Warn().Err(err).Str("symbol", diag.Symbol).Msg("watch quote unavailable")
		return
	}

	state := s.loadWatchState(ctx)
	if planID := s.currentPlanID(ctx); state.PlanID != planID {
		state = watchState{PlanID: planID}
	}
	fired := make(map[string]bool, len(state.Fired))
	for _, k := range state.Fired {
		fired[k] = true
	}

	hits := Triggers(&p, quote.Price)
	s.log.Info().Str("symbol", diag.Symbol).Float64("price", quote.Price).Int("hits", len(hits)).Msg("plan watch")

	changed := false
	for _, h := range hits {
		if fired[h.Key()] {
			continue
		}
		s.trySend(notifier.FormatAlert(diag.Symbol, h.Label, h.Price, quote.Price, s.now()))
		state.Fired = append(state.Fired, h.Key())
		fired[h.Key()] = true
		changed = true
	}
	if changed {
		if err := store.SaveJSON(ctx, s.Store, KeyWatchState, state); err != nil {
			s.log.Error().Err(err).Msg("save watch state")
		}
	}
}

func (s *Scheduler) loadWatchState(ctx context.Context) watchState {
	var st watchState
	if err := store.LoadJSON(ctx, s.Store, KeyWatchState, &st); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn().Err(err).Msg("watch state unreadable, resetting")
		return watchState{}
	}
	return st
}

// currentPlanID identifies the saved plan by its review record.
func (s *Scheduler) currentPlanID(ctx context.Context) string {
	var reviews []model.ReviewRecord
	if err := store.LoadJSON(ctx, s.Store, store.KeyReviews, &reviews); err != nil || len(reviews) == 0 {
		return ""
	}
	return reviews[0].ID
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
