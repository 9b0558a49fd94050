package services

import (
	"context"
	"sync"

	"github.com/zarabot/crates/pkg/crate"
)

// MockInventory is a mock implementation of Inventory for testing
type MockInventory struct {
	GetSnapshotFunc func(ctx context.Context, holder string, availableOnly bool) (crate.Snapshot, error)
	GiveItemsFunc   func(ctx context.Context, receiver string, items []ItemQuantity) (bool, error)
	ChargeUserFunc  func(ctx context.Context, user string, amount int) (*ChargeResult, error)

	// Snapshot backs default GetSnapshot behavior
	Snapshot crate.Snapshot

	// Track calls for testing
	GetSnapshotCalls []string
	GiveItemsCalls   []GiveItemsCall
	ChargeUserCalls  []ChargeUserCall

	mu sync.Mutex // protects all fields above
}

type GiveItemsCall struct {
	Receiver string
	Items    []ItemQuantity
}

type ChargeUserCall struct {
	User   string
	Amount int
}

// Ensure MockInventory implements Inventory interface
var _ Inventory = (*MockInventory)(nil)

// NewMockInventory creates a new mock inventory
func NewMockInventory() *MockInventory {
	return &MockInventory{}
}

// GetSnapshot mocks fetching a holder's stock
func (m *MockInventory) GetSnapshot(ctx context.Context, holder string, availableOnly bool) (crate.Snapshot, error) {
	m.mu.Lock()
	m.GetSnapshotCalls = append(m.GetSnapshotCalls, holder)
	fn := m.GetSnapshotFunc
	snap := m.Snapshot.Clone()
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, holder, availableOnly)
	}
	return snap, nil
}

// GiveItems mocks an item transfer
func (m *MockInventory) GiveItems(ctx context.Context, receiver string, items []ItemQuantity) (bool, error) {
	m.mu.Lock()
	m.GiveItemsCalls = append(m.GiveItemsCalls, GiveItemsCall{Receiver: receiver, Items: items})
	fn := m.GiveItemsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, receiver, items)
	}
	return true, nil
}

// ChargeUser mocks a payment offer
func (m *MockInventory) ChargeUser(ctx context.Context, user string, amount int) (*ChargeResult, error) {
	m.mu.Lock()
	m.ChargeUserCalls = append(m.ChargeUserCalls, ChargeUserCall{User: user, Amount: amount})
	fn := m.ChargeUserFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, user, amount)
	}
	return &ChargeResult{Accepted: true}, nil
}

// Calls returns copies of the tracked calls in a thread-safe way
func (m *MockInventory) Calls() ([]string, []GiveItemsCall, []ChargeUserCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snaps := make([]string, len(m.GetSnapshotCalls))
	copy(snaps, m.GetSnapshotCalls)
	gives := make([]GiveItemsCall, len(m.GiveItemsCalls))
	copy(gives, m.GiveItemsCalls)
	charges := make([]ChargeUserCall, len(m.ChargeUserCalls))
	copy(charges, m.ChargeUserCalls)
	return snaps, gives, charges
}
