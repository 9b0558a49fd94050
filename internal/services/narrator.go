package services

import (
	"context"
	"errors"

	"github.com/zarabot/crates/pkg/chat"
)

// ErrRateLimited is returned by a narrator provider when its upstream
// reports rate limiting. The failover narrator skips to the next
// provider instead of failing the session.
var ErrRateLimited = errors.New("narrator provider rate limited")

// Narrator defines the interface for generating the game's
// narrative text from a prompt conversation.
type Narrator interface {
	// Name identifies the provider in logs
	Name() string

	// GenerateHint generates narrative text for the given messages
	GenerateHint(ctx context.Context, messages []chat.Message) (string, error)
}
