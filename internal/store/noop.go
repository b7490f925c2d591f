package store

import "context"

// NoopStore is a no-op implementation used when persistence is disabled.
// Every key reads as missing.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Get(_ context.Context, _ string) ([]byte, error) { return nil, ErrNotFound }
func (n *NoopStore) Put(_ context.Context, _ string, _ []byte) error { return nil }
func (n *NoopStore) Close() error                                    { return nil }
