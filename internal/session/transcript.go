package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Option is one selectable choice attached to an action prompt.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ActionPrompt asks the player to act. The token correlates their
// response back to the waiting session.
type ActionPrompt struct {
	Token   string   `json:"token"`
	Kind    string   `json:"kind"`
	Options []Option `json:"options,omitempty"`
}

// Message is one rendered line of a game's conversation. Text uses
// the chat platform's markdown conventions (_..._ for narration).
// Context is the small print shown under the message.
type Message struct {
	ID      string        `json:"id"`
	Text    string        `json:"text"`
	Context string        `json:"context,omitempty"`
	Action  *ActionPrompt `json:"action,omitempty"`
}

// Chat is the outbound chat surface the orchestrator renders to.
// Post returns a message ID that Update can rewrite later, mirroring
// how chat platforms let bots edit their own messages.
type Chat interface {
	Post(ctx context.Context, gameID string, msg Message) (string, error)
	Update(ctx context.Context, gameID, messageID string, msg Message) error
}

// Transcript is an in-memory Chat implementation. The HTTP API and
// the console client read the transcript to render a game; a chat
// platform gateway would forward these messages instead.
type Transcript struct {
	mu       sync.RWMutex
	messages map[string][]Message
}

// Ensure Transcript implements Chat interface
var _ Chat = (*Transcript)(nil)

// NewTranscript creates an empty transcript store.
func NewTranscript() *Transcript {
	return &Transcript{
		messages: make(map[string][]Message),
	}
}

// Post appends a message to a game's transcript and returns its ID.
func (t *Transcript) Post(ctx context.Context, gameID string, msg Message) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg.ID = uuid.New().String()
	t.messages[gameID] = append(t.messages[gameID], msg)
	return msg.ID, nil
}

// Update rewrites a previously posted message in place.
func (t *Transcript) Update(ctx context.Context, gameID, messageID string, msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	msgs := t.messages[gameID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			msg.ID = messageID
			msgs[i] = msg
			return nil
		}
	}
	return fmt.Errorf("message %s not found in game %s", messageID, gameID)
}

// Messages returns a copy of a game's transcript.
func (t *Transcript) Messages(gameID string) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	msgs := make([]Message, len(t.messages[gameID]))
	copy(msgs, t.messages[gameID])
	return msgs
}

// Drop discards a finished game's transcript.
func (t *Transcript) Drop(gameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.messages, gameID)
}
