// Package correlate matches asynchronous external events to waiting
// game sessions. A session registers a continuation and receives an
// opaque one-time token plus a channel; whoever dispatches inbound
// events resolves the token, which delivers the event and retires the
// entry. Each token resolves at most once.
package correlate

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Event kinds delivered through the registry.
const (
	KindPayDecision = "pay_decision"
	KindCrateSelect = "crate_select"
)

var (
	// ErrExpired means the token is unknown: never issued, already
	// resolved, or swept after its TTL.
	ErrExpired = errors.New("action has expired")

	// ErrKindMismatch means the event kind does not match what the
	// continuation registered for. This indicates a protocol bug
	// upstream, not user error; the entry stays pending.
	ErrKindMismatch = errors.New("unexpected action kind")

	// ErrUnauthorized means someone other than the authorized user
	// acted on the token. The entry stays pending so the rightful
	// user can still respond.
	ErrUnauthorized = errors.New("not authorized to perform this action")
)

// Event is a resolved external action.
type Event struct {
	Kind  string `json:"kind"`
	User  string `json:"user"`
	Value string `json:"value,omitempty"`
}

type pending struct {
	created time.Time
	user    string // empty means anyone may resolve
	kind    string // empty means any kind matches
	ch      chan Event
}

// DefaultTTL is how long an unresolved continuation lives before the
// janitor sweeps it.
const DefaultTTL = 30 * time.Minute

const (
	tokenAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"
	tokenLength   = 21
)

// Registry holds pending continuations keyed by token.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*pending
	ttl     time.Duration
	logger  *slog.Logger
	done    chan struct{}
	closed  bool
}

// NewRegistry creates a registry. A positive ttl starts a janitor
// that sweeps abandoned entries; zero disables sweeping.
func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	r := &Registry{
		entries: make(map[string]*pending),
		ttl:     ttl,
		logger:  logger,
		done:    make(chan struct{}),
	}
	if ttl > 0 {
		go r.janitor()
	}
	return r
}

// Register creates a continuation and returns its token and delivery
// channel. The channel receives exactly one event and is then closed;
// it is closed without an event if the entry expires or is released.
// An empty user or kind disables that check.
func (r *Registry) Register(user, kind string) (string, <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := newToken()
	for _, exists := r.entries[token]; exists; _, exists = r.entries[token] {
		token = newToken()
	}

	p := &pending{
		created: time.Now(),
		user:    user,
		kind:    kind,
		ch:      make(chan Event, 1),
	}
	r.entries[token] = p
	return token, p.ch
}

// Resolve delivers an inbound event to the continuation registered
// under token. Checks run in order: token known, kind matches, acting
// user authorized. Only a fully matching event consumes the entry.
func (r *Registry) Resolve(token string, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.entries[token]
	if !ok {
		return ErrExpired
	}
	if p.kind != "" && evt.Kind != p.kind {
		r.logger.Error("Action kind mismatch on pending continuation",
			"expected", p.kind, "got", evt.Kind)
		return ErrKindMismatch
	}
	if p.user != "" && evt.User != p.user {
		return ErrUnauthorized
	}

	delete(r.entries, token)
	p.ch <- evt
	close(p.ch)
	return nil
}

// Release drops a continuation without resolving it, closing its
// channel. Sessions call this when they die before their action
// arrives, so abandoned games free their entries deterministically.
func (r *Registry) Release(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.entries[token]; ok {
		delete(r.entries, token)
		close(p.ch)
	}
}

// Len returns the number of pending continuations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close stops the janitor and releases every pending continuation.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.done)
	for token, p := range r.entries {
		delete(r.entries, token)
		close(p.ch)
	}
}

func (r *Registry) janitor() {
	interval := r.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep releases entries older than the TTL.
func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.ttl)
	for token, p := range r.entries {
		if p.created.Before(cutoff) {
			delete(r.entries, token)
			close(p.ch)
			r.logger.Debug("Swept expired continuation", "age", time.Since(p.created))
		}
	}
}

// newToken returns a 21-character random identifier. With a
// 64-symbol alphabet that is 126 bits of entropy, so collisions over
// a process lifetime are negligible even before the uniqueness check
// in Register.
func newToken() string {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)&63]
	}
	return string(buf)
}
