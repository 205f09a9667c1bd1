package store

import (
	"context"
	"sync"
)

// Memory implements KV with in-process maps. It backs deployments without
// a database DSN and the package's own tests. State is lost on restart.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	fields map[string]map[string]string
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
		fields: make(map[string]map[string]string),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if value, ok := m.values[key]; ok {
		return value, nil
	}
	if _, ok := m.fields[key]; ok {
		return "", ErrWrongType
	}
	return "", ErrNotFound
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.fields, key)
	m.values[key] = value
	return nil
}

func (m *Memory) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.values[key]; ok {
		return nil, ErrWrongType
	}
	out := make(map[string]string, len(m.fields[key]))
	for field, value := range m.fields[key] {
		out[field] = value
	}
	return out, nil
}

func (m *Memory) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.values[key]; ok {
		return ErrWrongType
	}
	existing, ok := m.fields[key]
	if !ok {
		existing = make(map[string]string, len(fields))
		m.fields[key] = existing
	}
	for field, value := range fields {
		existing[field] = value
	}
	return nil
}

func (m *Memory) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	delete(m.fields, key)
	return nil
}

func (m *Memory) HealthCheck(ctx context.Context) error {
	return nil
}
