package model

import "time"

// Stage is the current step of the decision workflow.
type Stage string

const (
	StageDiagnose Stage = "diagnose"
	StageSimulate Stage = "simulate"
	StagePlan     Stage = "plan"
	StageReview   Stage = "review"
)

// Attribution splits a result into market, stock-specific, emotional and execution components.
type Attribution struct {
	Beta      float64 `json:"beta"`      // market
	Alpha     float64 `json:"alpha"`     // stock-specific
	Emotion   float64 `json:"emotion"`   // 0 ~ 100 emotional bias
	Execution float64 `json:"execution"` // 0 ~ 100 execution quality
}

// ReviewRecord is appended to the history on every saved plan.
type ReviewRecord struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Symbol      string       `json:"symbol"`
	Decision    StrategyKind `json:"decision"`
	ResultPnl   float64      `json:"result_pnl"`
	Attribution Attribution  `json:"attribution"`
	Notes       string       `json:"notes,omitempty"`
}
