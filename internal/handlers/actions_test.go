package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarabot/crates/pkg/correlate"
)

func newActionFixture(t *testing.T) (*ActionHandler, *correlate.Registry) {
	t.Helper()
	registry := correlate.NewRegistry(0, testLogger())
	t.Cleanup(registry.Close)
	return NewActionHandler(registry, testLogger()), registry
}

func postAction(handler *ActionHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/actions", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestActionHandler_Resolve(t *testing.T) {
	handler, registry := newActionFixture(t)

	token, ch := registry.Register("U123", correlate.KindPayDecision)

	w := postAction(handler, `{"token":"`+token+`","kind":"pay_decision","user":"U123","value":"accept"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var response ActionResponse
	require.NoError(t, decodeBody(w, &response))
	assert.True(t, response.Accepted)

	event := <-ch
	assert.Equal(t, "accept", event.Value)
	assert.Equal(t, "U123", event.User)
}

func TestActionHandler_ExpiredToken(t *testing.T) {
	handler, _ := newActionFixture(t)

	w := postAction(handler, `{"token":"unknown-token","kind":"pay_decision","user":"U123","value":"accept"}`)
	assert.Equal(t, http.StatusGone, w.Code)

	var response ErrorResponse
	require.NoError(t, decodeBody(w, &response))
	assert.Equal(t, "This action has expired", response.Error)
}

func TestActionHandler_WrongUser(t *testing.T) {
	handler, registry := newActionFixture(t)

	token, _ := registry.Register("U123", correlate.KindPayDecision)

	w := postAction(handler, `{"token":"`+token+`","kind":"pay_decision","user":"U999","value":"accept"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var response ErrorResponse
	require.NoError(t, decodeBody(w, &response))
	assert.Equal(t, "You are not authorized to perform this action", response.Error)

	// The entry survives for the rightful user.
	assert.Equal(t, 1, registry.Len())
}

func TestActionHandler_KindMismatch(t *testing.T) {
	handler, registry := newActionFixture(t)

	token, _ := registry.Register("U123", correlate.KindPayDecision)

	w := postAction(handler, `{"token":"`+token+`","kind":"crate_select","user":"U123","value":"0"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, registry.Len())
}

func TestActionHandler_Validation(t *testing.T) {
	handler, _ := newActionFixture(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "missing token", body: `{"kind":"pay_decision","user":"U123"}`, wantCode: http.StatusBadRequest},
		{name: "invalid json", body: `{token`, wantCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postAction(handler, tc.body)
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestActionHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := newActionFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/actions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
