package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the durable records written on every saved plan.
const (
	KeyReviews         = "phoenix_reviews"
	KeyLastPlan        = "phoenix_last_plan"
	KeyLastDiagnostics = "phoenix_last_diagnostics"
	KeyLastSimulation  = "phoenix_last_simulation"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a best-effort key-value persistence layer. Each Put is an atomic
// upsert of one key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// LoadJSON reads key and decodes it into v.
func LoadJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SaveJSON encodes v and upserts it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}
