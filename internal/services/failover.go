package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zarabot/crates/pkg/chat"
)

// FailoverNarrator tries each configured provider in order, skipping
// any that reports rate limiting. Only when every provider is
// exhausted does the failure surface to the session.
type FailoverNarrator struct {
	providers []Narrator
	logger    *slog.Logger
}

// Ensure FailoverNarrator implements Narrator interface
var _ Narrator = (*FailoverNarrator)(nil)

// NewFailoverNarrator creates a narrator with ordered fallbacks
func NewFailoverNarrator(logger *slog.Logger, providers ...Narrator) *FailoverNarrator {
	return &FailoverNarrator{
		providers: providers,
		logger:    logger,
	}
}

func (f *FailoverNarrator) Name() string {
	return "failover"
}

func (f *FailoverNarrator) GenerateHint(ctx context.Context, messages []chat.Message) (string, error) {
	var lastErr error
	for _, p := range f.providers {
		hint, err := p.GenerateHint(ctx, messages)
		if err == nil {
			return hint, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}
		f.logger.Warn("Narrator provider is rate limited, trying next", "provider", p.Name(), "error", err)
		lastErr = err
	}

	if lastErr == nil {
		return "", fmt.Errorf("no narrator providers configured")
	}
	f.logger.Error("All narrator providers are rate limited")
	return "", fmt.Errorf("all narrator providers exhausted: %w", lastErr)
}
