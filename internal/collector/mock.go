package collector

import (
	"context"
	"time"

	"Phoenix/internal/model"
)

// MockProvider returns controllable fixed signals for development and testing.
// A nil signal with a nil error falls back to the synthetic derivation.
type MockProvider struct {
	Quote        *model.Quote
	Fundamentals *model.Fundamentals
	Sentiment    *model.Sentiment

	QuoteErr        error
	FundamentalsErr error
	SentimentErr    error

	// Delay is applied to every fetch; it honors context cancellation.
	Delay time.Duration
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockProvider) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	if m.Quote != nil {
		q := *m.Quote
		return &q, nil
	}
	return FallbackQuote(symbol), nil
}

func (m *MockProvider) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.FundamentalsErr != nil {
		return nil, m.FundamentalsErr
	}
	if m.Fundamentals != nil {
		f := *m.Fundamentals
		return &f, nil
	}
	return SyntheticFundamentals(symbol), nil
}

func (m *MockProvider) FetchSentiment(ctx context.Context, symbol string) (*model.Sentiment, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.SentimentErr != nil {
		return nil, m.SentimentErr
	}
	if m.Sentiment != nil {
		s := *m.Sentiment
		return &s, nil
	}
	return SyntheticSentiment(symbol), nil
}
