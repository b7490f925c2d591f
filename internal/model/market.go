package model

import "time"

// HealthStatus is the tri-state fundamentals health lamp.
type HealthStatus string

const (
	HealthHealthy    HealthStatus = "healthy"
	HealthSubhealthy HealthStatus = "subhealthy"
	HealthCrisis     HealthStatus = "crisis"
)

// Quote is the latest observed price for a symbol.
type Quote struct {
	Symbol   string    `json:"symbol"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency,omitempty"`
	Time     time.Time `json:"time"`
}

// Fundamentals is a coarse company health snapshot.
type Fundamentals struct {
	Symbol     string       `json:"symbol"`
	ROE        float64      `json:"roe"`
	DebtRatio  float64      `json:"debt_ratio"`
	RevenueYoY float64      `json:"revenue_yoy"`
	Health     HealthStatus `json:"health"`
	Comment    string       `json:"comment,omitempty"`
}

// Sentiment scores market mood for a symbol from -1 (fear) to +1 (greed).
type Sentiment struct {
	Symbol     string  `json:"symbol"`
	Score      float64 `json:"score"`
	Popularity float64 `json:"popularity"` // 0 ~ 100
	Summary    string  `json:"summary,omitempty"`
}
