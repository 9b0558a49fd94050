package correlate

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	token, ch := r.Register("U123", KindPayDecision)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, r.Len())

	err := r.Resolve(token, Event{Kind: KindPayDecision, User: "U123", Value: "accept"})
	require.NoError(t, err)

	evt, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "accept", evt.Value)
	assert.Equal(t, "U123", evt.User)

	// The channel closes after the single delivery.
	_, ok = <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryUnknownToken(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	err := r.Resolve("no-such-token", Event{Kind: KindPayDecision, User: "U123"})
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRegistryTokenResolvesOnce(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	token, _ := r.Register("U123", "")
	require.NoError(t, r.Resolve(token, Event{User: "U123"}))

	err := r.Resolve(token, Event{User: "U123"})
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRegistryWrongUserKeepsEntry(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	token, ch := r.Register("U123", KindCrateSelect)

	// Someone else tries to act on the token: rejected, but the
	// continuation stays pending for the rightful user.
	err := r.Resolve(token, Event{Kind: KindCrateSelect, User: "U999", Value: "0"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, r.Len())

	err = r.Resolve(token, Event{Kind: KindCrateSelect, User: "U123", Value: "2"})
	require.NoError(t, err)

	evt := <-ch
	assert.Equal(t, "2", evt.Value)
}

func TestRegistryKindMismatch(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	token, _ := r.Register("U123", KindCrateSelect)

	err := r.Resolve(token, Event{Kind: KindPayDecision, User: "U123"})
	assert.ErrorIs(t, err, ErrKindMismatch)

	// A kind mismatch is an upstream bug, not a consumed token.
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnconstrained(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	// No user or kind constraint: anything resolves it.
	token, ch := r.Register("", "")
	require.NoError(t, r.Resolve(token, Event{Kind: "whatever", User: "anyone"}))
	evt := <-ch
	assert.Equal(t, "anyone", evt.User)
}

func TestRegistryRelease(t *testing.T) {
	r := NewRegistry(0, testLogger())
	defer r.Close()

	token, ch := r.Register("U123", "")
	r.Release(token)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// Releasing twice is harmless.
	r.Release(token)
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(time.Hour, testLogger())
	defer r.Close()

	token, ch := r.Register("U123", "")

	// Backdate the entry past the TTL and sweep directly rather
	// than waiting on the janitor tick.
	r.mu.Lock()
	r.entries[token].created = time.Now().Add(-2 * time.Hour)
	r.mu.Unlock()
	r.sweep()

	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, r.Resolve(token, Event{User: "U123"}), ErrExpired)
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry(time.Minute, testLogger())

	_, ch1 := r.Register("U1", "")
	_, ch2 := r.Register("U2", "")
	r.Close()

	_, ok := <-ch1
	assert.False(t, ok)
	_, ok = <-ch2
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// Double close is safe.
	r.Close()
}

func TestTokenShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok := newToken()
		assert.Len(t, tok, tokenLength)
		assert.False(t, seen[tok], "token collision: %s", tok)
		seen[tok] = true
	}
}
