package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarabot/crates/internal/services"
	"github.com/zarabot/crates/internal/session"
	"github.com/zarabot/crates/pkg/correlate"
	"github.com/zarabot/crates/pkg/crate"
	"github.com/zarabot/crates/pkg/item"
)

func decodeBody(w *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(w.Body).Decode(v)
}

type gameFixture struct {
	handler    *GameHandler
	actions    *ActionHandler
	manager    *session.Manager
	transcript *session.Transcript
	registry   *correlate.Registry
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()

	catalog := item.NewCatalog([]item.Info{
		{Name: "Rock", ValueGP: 1},
		{Name: "Apple", ValueGP: 2},
		{Name: "Iron", ValueGP: 10},
		{Name: "Diamond", ValueGP: 50},
	})
	inventory := services.NewMockInventory()
	inventory.Snapshot = crate.Snapshot{
		{Item: "Rock", Quantity: 500},
		{Item: "Apple", Quantity: 500},
		{Item: "Iron", Quantity: 100},
		{Item: "Diamond", Quantity: 20},
	}

	registry := correlate.NewRegistry(0, testLogger())
	t.Cleanup(registry.Close)
	transcript := session.NewTranscript()

	manager := session.NewManager(staticCatalog{catalog}, inventory, services.NewMockNarrator(), services.NewMockCache(), registry, transcript, session.Config{
		BotAccount: "bot-account",
	}, testLogger())

	return &gameFixture{
		handler:    NewGameHandler(manager, transcript, testLogger()),
		actions:    NewActionHandler(registry, testLogger()),
		manager:    manager,
		transcript: transcript,
		registry:   registry,
	}
}

func (f *gameFixture) createGame(t *testing.T, user string) GameResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/games", strings.NewReader(`{"user":"`+user+`"}`))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var response GameResponse
	require.NoError(t, decodeBody(w, &response))
	return response
}

func (f *gameFixture) readGame(t *testing.T, id string) (int, GameResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/v1/games/"+id, nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	var response GameResponse
	if w.Code == http.StatusOK {
		require.NoError(t, decodeBody(w, &response))
	}
	return w.Code, response
}

// awaitPrompt polls the game until an action prompt of the given kind
// shows up in its transcript.
func (f *gameFixture) awaitPrompt(t *testing.T, gameID, kind string) session.ActionPrompt {
	t.Helper()

	var prompt session.ActionPrompt
	require.Eventually(t, func() bool {
		_, response := f.readGame(t, gameID)
		for _, msg := range response.Messages {
			if msg.Action != nil && msg.Action.Kind == kind {
				prompt = *msg.Action
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond, "no %s prompt appeared", kind)
	return prompt
}

func TestGameHandler_Create(t *testing.T) {
	f := newGameFixture(t)

	response := f.createGame(t, "U123")
	assert.NotEmpty(t, response.ID)
	assert.Equal(t, "U123", response.User)
	assert.False(t, response.Done)
}

func TestGameHandler_CreateValidation(t *testing.T) {
	f := newGameFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing user", body: `{}`},
		{name: "blank user", body: `{"user":"  "}`},
		{name: "invalid json", body: `{user`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/games", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			f.handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGameHandler_Read(t *testing.T) {
	f := newGameFixture(t)

	created := f.createGame(t, "U123")
	prompt := f.awaitPrompt(t, created.ID, correlate.KindPayDecision)
	assert.Len(t, prompt.Options, 2)

	code, response := f.readGame(t, created.ID)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, response.ID)
	assert.GreaterOrEqual(t, response.Cost, crate.DefaultPriceFloor)
	assert.NotEmpty(t, response.Messages)
}

func TestGameHandler_ReadNotFound(t *testing.T) {
	f := newGameFixture(t)

	code, _ := f.readGame(t, "0198a4a1-0000-7000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGameHandler_ReadInvalidID(t *testing.T) {
	f := newGameFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/games/not-a-uuid", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameHandler_ReadWithoutID(t *testing.T) {
	f := newGameFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameHandler_MethodNotAllowed(t *testing.T) {
	f := newGameFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/games", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// TestGameHandler_FullGameOverHTTP plays a complete game through the
// HTTP surface: create, pay, select, settle.
func TestGameHandler_FullGameOverHTTP(t *testing.T) {
	f := newGameFixture(t)

	created := f.createGame(t, "U123")
	payPrompt := f.awaitPrompt(t, created.ID, correlate.KindPayDecision)

	f.postAction(t, ActionRequest{
		Token: payPrompt.Token,
		Kind:  correlate.KindPayDecision,
		User:  "U123",
		Value: "accept",
	}, http.StatusOK)

	selectPrompt := f.awaitPrompt(t, created.ID, correlate.KindCrateSelect)
	require.Len(t, selectPrompt.Options, crate.DefaultCrateCount)

	f.postAction(t, ActionRequest{
		Token: selectPrompt.Token,
		Kind:  correlate.KindCrateSelect,
		User:  "U123",
		Value: selectPrompt.Options[1].Value,
	}, http.StatusOK)

	require.Eventually(t, func() bool {
		_, response := f.readGame(t, created.ID)
		return response.Status == session.StatusSettled
	}, 2*time.Second, 5*time.Millisecond)

	_, response := f.readGame(t, created.ID)
	assert.True(t, response.Done)
}

func (f *gameFixture) postAction(t *testing.T, action ActionRequest, wantCode int) {
	t.Helper()

	body, err := json.Marshal(action)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/actions", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	f.actions.ServeHTTP(w, req)
	require.Equal(t, wantCode, w.Code, "body: %s", w.Body.String())
}
