package model

import "time"

// Position is a single equity holding.
type Position struct {
	Symbol    string     `json:"symbol"`
	CostPrice float64    `json:"cost_price"` // average cost per share
	Quantity  int64      `json:"quantity"`
	Date      *time.Time `json:"date,omitempty"` // acquisition date
}

// TotalCost returns the cost basis of the whole position.
func (p Position) TotalCost() float64 {
	return p.CostPrice * float64(p.Quantity)
}

// With derives a hypothetical position with a different cost and quantity.
// The receiver is left untouched.
func (p Position) With(costPrice float64, quantity int64) Position {
	p.CostPrice = costPrice
	p.Quantity = quantity
	return p
}

// Diagnostics combines the position with the independently fetched signals.
// A nil signal means the source was unavailable.
type Diagnostics struct {
	Symbol       string        `json:"symbol"`
	Quote        *Quote        `json:"quote"`
	Fundamentals *Fundamentals `json:"fundamentals"`
	Sentiment    *Sentiment    `json:"sentiment"`
	Position     Position      `json:"position"`
}

// CurrentPrice returns the quoted price, or the cost price when no quote is available.
func (d *Diagnostics) CurrentPrice() float64 {
	return CurrentPrice(d.Position, d.Quote)
}

// CurrentPrice falls back to the position's cost price when quote is nil.
func CurrentPrice(pos Position, quote *Quote) float64 {
	if quote != nil {
		return quote.Price
	}
	return pos.CostPrice
}
