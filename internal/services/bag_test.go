package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarabot/crates/pkg/crate"
)

func TestBagService_GetSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get-inventory", r.URL.Path)
		assert.Equal(t, "Bearer app-key", r.Header.Get("Authorization"))

		var req bagInventoryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bot-account", req.IdentityID)
		assert.True(t, req.Available)

		_ = json.NewEncoder(w).Encode(crate.Snapshot{
			{Item: "Apple", Quantity: 12, Instance: 4},
			{Item: "Iron", Quantity: 3, Instance: 9},
		})
	}))
	defer server.Close()

	svc := NewBagService(server.URL, "app-key", "bot-account", catalogTestLogger())
	snap, err := svc.GetSnapshot(context.Background(), "bot-account", true)
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, 12, snap.Quantity("Apple"))
	assert.Equal(t, 9, snap[1].Instance)
}

func TestBagService_GiveItems(t *testing.T) {
	t.Run("successful transfer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/transfer-items", r.URL.Path)

			var req bagTransferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "bot-account", req.GiverID)
			assert.Equal(t, "U123", req.ReceiverID)
			require.Len(t, req.Items, 1)
			assert.Equal(t, "Apple", req.Items[0].Item)

			_ = json.NewEncoder(w).Encode(bagTransferResponse{Success: true})
		}))
		defer server.Close()

		svc := NewBagService(server.URL, "app-key", "bot-account", catalogTestLogger())
		ok, err := svc.GiveItems(context.Background(), "U123", []ItemQuantity{{Item: "Apple", Quantity: 2}})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(bagTransferResponse{Success: false, Reason: "insufficient_items"})
		}))
		defer server.Close()

		svc := NewBagService(server.URL, "app-key", "bot-account", catalogTestLogger())
		ok, err := svc.GiveItems(context.Background(), "U123", []ItemQuantity{{Item: "Diamond", Quantity: 99}})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBagService_ChargeUser(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/offer-charge", r.URL.Path)

			var req bagChargeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 75, req.Amount)

			_ = json.NewEncoder(w).Encode(ChargeResult{Accepted: true})
		}))
		defer server.Close()

		svc := NewBagService(server.URL, "app-key", "bot-account", catalogTestLogger())
		result, err := svc.ChargeUser(context.Background(), "U123", 75)
		require.NoError(t, err)
		assert.True(t, result.Accepted)
	})

	t.Run("declined", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(ChargeResult{Accepted: false, Reason: ChargeReasonDeclined})
		}))
		defer server.Close()

		svc := NewBagService(server.URL, "app-key", "bot-account", catalogTestLogger())
		result, err := svc.ChargeUser(context.Background(), "U123", 75)
		require.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ChargeReasonDeclined, result.Reason)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := NewBagService(server.URL, "app-key", "bot-account", catalogTestLogger())
		_, err := svc.ChargeUser(context.Background(), "U123", 75)
		assert.Error(t, err)
	})
}
