package services

import (
	"context"
	"sync"
	"time"
)

// MockCache is a mock implementation of Cache for testing
type MockCache struct {
	PingFunc              func(ctx context.Context) error
	SetFunc               func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc               func(ctx context.Context, key string) (string, error)
	DelFunc               func(ctx context.Context, keys ...string) error
	ExistsFunc            func(ctx context.Context, keys ...string) (bool, error)
	IncrByFunc            func(ctx context.Context, key string, n int64) (int64, error)
	CloseFunc             func() error
	WaitForConnectionFunc func(ctx context.Context) error

	// Track calls for testing
	SetCalls    []SetCall
	GetCalls    []string
	DelCalls    [][]string
	IncrByCalls []IncrByCall
	CloseCalls  int

	// data backs default Get/Set/IncrBy behavior
	data     map[string]string
	counters map[string]int64

	mu sync.Mutex // protects all fields above
}

type SetCall struct {
	Key        string
	Value      interface{}
	Expiration time.Duration
}

type IncrByCall struct {
	Key string
	N   int64
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		data:     make(map[string]string),
		counters: make(map[string]int64),
	}
}

// Ping mocks cache ping
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Set mocks cache set, storing the value for later Get calls
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, Expiration: expiration})
	if s, ok := value.(string); ok {
		m.data[key] = s
	}
	m.mu.Unlock()

	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

// Get mocks cache get
func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, key)
	value := m.data[key]
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return value, nil
}

// Del mocks cache delete
func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	m.DelCalls = append(m.DelCalls, keys)
	for _, key := range keys {
		delete(m.data, key)
	}
	m.mu.Unlock()

	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

// Exists mocks cache exists check
func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, keys...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

// IncrBy mocks counter increments
func (m *MockCache) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	m.mu.Lock()
	m.IncrByCalls = append(m.IncrByCalls, IncrByCall{Key: key, N: n})
	m.counters[key] += n
	value := m.counters[key]
	m.mu.Unlock()

	if m.IncrByFunc != nil {
		return m.IncrByFunc(ctx, key, n)
	}
	return value, nil
}

// Counter returns the current value of a mock counter
func (m *MockCache) Counter(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

// Close mocks cache close
func (m *MockCache) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// WaitForConnection mocks waiting for the cache
func (m *MockCache) WaitForConnection(ctx context.Context) error {
	if m.WaitForConnectionFunc != nil {
		return m.WaitForConnectionFunc(ctx)
	}
	return nil
}
