package model

import (
	"errors"
	"fmt"
	"strings"
)

// StrategyKind names one of the simulated strategies.
type StrategyKind string

const (
	KindSupplement StrategyKind = "supplement"
	KindSwap       StrategyKind = "swap"
	KindHold       StrategyKind = "hold"
)

// ErrInvalidStrategy is returned when strategy parameters fail validation.
var ErrInvalidStrategy = errors.New("invalid strategy params")

// ParseStrategyKind maps user input to a kind. Unknown input maps to hold.
func ParseStrategyKind(s string) StrategyKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supplement", "补仓":
		return KindSupplement
	case "swap", "换股":
		return KindSwap
	default:
		return KindHold
	}
}

// StrategyParams is the closed set of strategy variants:
// SupplementParams, SwapParams and HoldParams.
type StrategyParams interface {
	Kind() StrategyKind
	Validate() error
	isStrategy()
}

// SupplementParams adds AddQuantity shares at AddPrice.
type SupplementParams struct {
	AddQuantity int64   `json:"add_quantity"`
	AddPrice    float64 `json:"add_price"`
}

// SwapParams sells SellQuantity shares, nominally into TargetSymbol.
type SwapParams struct {
	SellQuantity            int64    `json:"sell_quantity"`
	TargetSymbol            string   `json:"target_symbol"`
	TargetExpectedReturnPct *float64 `json:"target_expected_return_pct,omitempty"`
}

// HoldParams leaves the position unchanged.
type HoldParams struct {
	HorizonDays *int `json:"horizon_days,omitempty"`
}

func (SupplementParams) Kind() StrategyKind { return KindSupplement }
func (SwapParams) Kind() StrategyKind       { return KindSwap }
func (HoldParams) Kind() StrategyKind       { return KindHold }

func (SupplementParams) isStrategy() {}
func (SwapParams) isStrategy()       {}
func (HoldParams) isStrategy()       {}

func (p SupplementParams) Validate() error {
	if p.AddQuantity <= 0 {
		return fmt.Errorf("%w: add quantity must be positive, got %d", ErrInvalidStrategy, p.AddQuantity)
	}
	if p.AddPrice <= 0 {
		return fmt.Errorf("%w: add price must be positive, got %.4f", ErrInvalidStrategy, p.AddPrice)
	}
	return nil
}

func (p SwapParams) Validate() error {
	if p.SellQuantity < 0 {
		return fmt.Errorf("%w: sell quantity must not be negative, got %d", ErrInvalidStrategy, p.SellQuantity)
	}
	return nil
}

func (p HoldParams) Validate() error {
	if p.HorizonDays != nil && *p.HorizonDays < 0 {
		return fmt.Errorf("%w: horizon must not be negative, got %d", ErrInvalidStrategy, *p.HorizonDays)
	}
	return nil
}
