package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"Phoenix/internal/model"
)

// SignalProvider composes an optional live QuoteSource with locally derived
// fundamentals and sentiment. It never returns an error: a failed quote
// degrades to FallbackQuote.
type SignalProvider struct {
	Quotes QuoteSource // nil means offline
	log    zerolog.Logger
}

// NewSignalProvider creates a provider backed by quotes.
func NewSignalProvider(quotes QuoteSource, log zerolog.Logger) *SignalProvider {
	return &SignalProvider{
		Quotes: quotes,
		log:    log.With().Str("component", "signal_provider").Logger(),
	}
}

func (p *SignalProvider) Name() string {
	if p.Quotes == nil {
		return "synthetic"
	}
	return p.Quotes.Name()
}

func (p *SignalProvider) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	if p.Quotes == nil {
		return FallbackQuote(symbol), nil
	}
	q, err := p.Quotes.FetchQuote(ctx, symbol)
	if err != nil || q == nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Str("source", p.Quotes.Name()).
			Msg("quote fetch failed, using fallback")
		return FallbackQuote(symbol), nil
	}
	return q, nil
}

func (p *SignalProvider) FetchFundamentals(_ context.Context, symbol string) (*model.Fundamentals, error) {
	return SyntheticFundamentals(symbol), nil
}

func (p *SignalProvider) FetchSentiment(_ context.Context, symbol string) (*model.Sentiment, error) {
	return SyntheticSentiment(symbol), nil
}

func charSum(symbol string) int64 {
	var sum int64
	for _, c := range symbol {
		sum += int64(c)
	}
	return sum
}

// FallbackQuote derives a deterministic placeholder price in [20, 70) from the symbol.
func FallbackQuote(symbol string) *model.Quote {
	return &model.Quote{
		Symbol:   symbol,
		Price:    float64(charSum(symbol)%50 + 20),
		Currency: "USD",
		Time:     time.Now(),
	}
}

// SyntheticFundamentals derives a stable tri-state health model from the symbol.
func SyntheticFundamentals(symbol string) *model.Fundamentals {
	h := int64(7)
	for _, c := range symbol {
		h = (h*31 + int64(c)) % 100
	}

	var health model.HealthStatus
	var comment string
	switch {
	case h > 66:
		health = model.HealthHealthy
		comment = "基本面良好，成长与盈利稳健。"
	case h > 33:
		health = model.HealthSubhealthy
		comment = "基本面一般，需关注负债与盈利质量。"
	default:
		health = model.HealthCrisis
		comment = "基本面偏弱，短期风险较高。"
	}

	return &model.Fundamentals{
		Symbol:     symbol,
		ROE:        float64(h%20 - 5),
		DebtRatio:  model.Round2(float64(h%60) / 100),
		RevenueYoY: model.Round2(float64(h%40-10) / 10),
		Health:     health,
		Comment:    comment,
	}
}

// SyntheticSentiment derives a fear/greed score in [-1, 1) from the symbol.
func SyntheticSentiment(symbol string) *model.Sentiment {
	h := charSum(symbol)%200 - 100
	summary := "市场偏乐观/贪婪"
	if h < 0 {
		summary = "市场偏悲观/恐惧"
	}
	popularity := h
	if popularity < 0 {
		popularity = -popularity
	}
	return &model.Sentiment{
		Symbol:     symbol,
		Score:      model.Round2(float64(h) / 100),
		Popularity: float64(popularity),
		Summary:    summary,
	}
}
