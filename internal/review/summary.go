package review

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"Phoenix/internal/model"
)

// Summary aggregates the review history.
type Summary struct {
	Count      int                        `json:"count"`
	Wins       int                        `json:"wins"`   // ResultPnl > 0
	Losses     int                        `json:"losses"` // ResultPnl < 0
	WinRate    float64                    `json:"win_rate"`
	TotalPnl   float64                    `json:"total_pnl"`
	MeanPnl    float64                    `json:"mean_pnl"`
	StdDevPnl  float64                    `json:"stddev_pnl"` // sample standard deviation
	BestPnl    float64                    `json:"best_pnl"`
	WorstPnl   float64                    `json:"worst_pnl"`
	ByDecision map[model.StrategyKind]int `json:"by_decision"`
}

// Summarize computes statistics over records. An empty history yields a zero
// Summary with an empty ByDecision map.
func Summarize(records []model.ReviewRecord) Summary {
	s := Summary{ByDecision: make(map[model.StrategyKind]int)}
	if len(records) == 0 {
		return s
	}

	pnls := make([]float64, len(records))
	for i, r := range records {
		pnls[i] = r.ResultPnl
		s.ByDecision[r.Decision]++
		switch {
		case r.ResultPnl > 0:
			s.Wins++
		case r.ResultPnl < 0:
			s.Losses++
		}
	}

	s.Count = len(records)
	s.WinRate = model.Round2(float64(s.Wins) / float64(s.Count) * 100)
	s.TotalPnl = model.Round2(floats.Sum(pnls))
	s.MeanPnl = model.Round2(stat.Mean(pnls, nil))
	if len(pnls) > 1 {
		s.StdDevPnl = model.Round2(stat.StdDev(pnls, nil))
	}
	s.BestPnl = floats.Max(pnls)
	s.WorstPnl = floats.Min(pnls)
	return s
}
