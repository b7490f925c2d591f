package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"Phoenix/internal/model"
)

// DefaultTimeout bounds each signal fetch.
const DefaultTimeout = 10 * time.Second

// Collector fans out the signal fetches for a diagnosis.
type Collector struct {
	Provider Provider
	Timeout  time.Duration
	log      zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(provider Provider, timeout time.Duration, log zerolog.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Collector{
		Provider: provider,
		Timeout:  timeout,
		log:      log.With().Str("component", "collector").Logger(),
	}
}

// Diagnose fetches quote, fundamentals and sentiment concurrently and combines
// them with pos. A signal that fails or misses the deadline is left nil; the
// diagnosis itself never fails.
func (c *Collector) Diagnose(ctx context.Context, pos model.Position) model.Diagnostics {
	diag := model.Diagnostics{Symbol: pos.Symbol, Position: pos}

	var g errgroup.Group
	g.Go(func() error {
		q, err := fetchWithin(ctx, c.Timeout, func(ctx context.Context) (*model.Quote, error) {
			return c.Provider.FetchQuote(ctx, pos.Symbol)
		})
		c.warn("quote", pos.Symbol, err)
		diag.Quote = q
		return nil
	})
	g.Go(func() error {
		f, err := fetchWithin(ctx, c.Timeout, func(ctx context.Context) (*model.Fundamentals, error) {
			return c.Provider.FetchFundamentals(ctx, pos.Symbol)
		})
		c.warn("fundamentals", pos.Symbol, err)
		diag.Fundamentals = f
		return nil
	})
	g.Go(func() error {
		s, err := fetchWithin(ctx, c.Timeout, func(ctx context.Context) (*model.Sentiment, error) {
			return c.Provider.FetchSentiment(ctx, pos.Symbol)
		})
		c.warn("sentiment", pos.Symbol, err)
		diag.Sentiment = s
		return nil
	})
	_ = g.Wait()

	c.log.Info().
		Str("symbol", pos.Symbol).
		Bool("quote", diag.Quote != nil).
		Bool("fundamentals", diag.Fundamentals != nil).
		Bool("sentiment", diag.Sentiment != nil).
		Msg("diagnosis collected")
	return diag
}

func (c *Collector) warn(signal, symbol string, err error) {
	if err != nil {
		c.log.Warn().Err(err).Str("signal", signal).Str("symbol", symbol).Msg("signal unavailable")
	}
}

// fetchWithin runs fn with a deadline and stops waiting when it passes, even if
// fn ignores its context. A panic inside fn is reported as an error.
func fetchWithin[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   *T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("signal panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return r.v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
