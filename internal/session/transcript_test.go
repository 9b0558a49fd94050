package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptPostAndUpdate(t *testing.T) {
	tr := NewTranscript()
	ctx := context.Background()

	id1, err := tr.Post(ctx, "game-1", Message{Text: "hello"})
	require.NoError(t, err)
	id2, err := tr.Post(ctx, "game-1", Message{Text: "world"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	msgs := tr.Messages("game-1")
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, id1, msgs[0].ID)

	err = tr.Update(ctx, "game-1", id1, Message{Text: "edited", Context: "small print"})
	require.NoError(t, err)

	msgs = tr.Messages("game-1")
	assert.Equal(t, "edited", msgs[0].Text)
	assert.Equal(t, "small print", msgs[0].Context)
	assert.Equal(t, id1, msgs[0].ID, "update must keep the message ID")
	assert.Equal(t, "world", msgs[1].Text)
}

func TestTranscriptUpdateUnknownMessage(t *testing.T) {
	tr := NewTranscript()
	err := tr.Update(context.Background(), "game-1", "nope", Message{Text: "x"})
	assert.Error(t, err)
}

func TestTranscriptGamesAreIsolated(t *testing.T) {
	tr := NewTranscript()
	ctx := context.Background()

	_, err := tr.Post(ctx, "game-1", Message{Text: "one"})
	require.NoError(t, err)
	_, err = tr.Post(ctx, "game-2", Message{Text: "two"})
	require.NoError(t, err)

	assert.Len(t, tr.Messages("game-1"), 1)
	assert.Len(t, tr.Messages("game-2"), 1)

	tr.Drop("game-1")
	assert.Empty(t, tr.Messages("game-1"))
	assert.Len(t, tr.Messages("game-2"), 1)
}
