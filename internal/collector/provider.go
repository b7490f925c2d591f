package collector

import (
	"context"

	"Phoenix/internal/model"
)

// Provider supplies the three diagnostic signals for a symbol.
type Provider interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
	FetchSentiment(ctx context.Context, symbol string) (*model.Sentiment, error)
	Name() string
}

// QuoteSource fetches a live quote from a market data API.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}
