package storage

import (
	"context"
	"sync"
)

// Keys used by the gallery. Products and theme are stored independently.
const (
	KeyProducts = "fashion_products_v2"
	KeyTheme    = "theme_mode"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process KV.
type Memory struct {
	values sync.Map
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

// Get implements KV
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Set implements KV
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.values.Store(key, value)
	return nil
}
