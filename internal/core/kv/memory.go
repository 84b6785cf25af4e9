package kv

import (
	"context"
	"fmt"

	"github.com/hay-kot/ticked/pkg/kv"
)

// Memory is a process-local KV. Nothing survives a restart.
type Memory struct {
	data *kv.Store[string, string]
}

var _ KV = (*Memory)(nil)

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{data: kv.New[string, string]()}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data.Get(key)
	if !ok {
		return "", fmt.Errorf("kv get %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.data.Set(key, value)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	_, ok := m.data.Get(key)
	return ok, nil
}

func (m *Memory) ListKeys(_ context.Context) ([]string, error) {
	return m.data.Keys(), nil
}
