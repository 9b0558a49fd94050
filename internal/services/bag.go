package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zarabot/crates/pkg/crate"
)

// BagService implements Inventory against the bag inventory API. The
// bot holds a dedicated account there; crates are drawn from and
// settled against that account's stock.
type BagService struct {
	baseURL    string
	appKey     string
	botAccount string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure BagService implements Inventory interface
var _ Inventory = (*BagService)(nil)

// NewBagService creates a new bag inventory client
func NewBagService(baseURL, appKey, botAccount string, logger *slog.Logger) *BagService {
	return &BagService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appKey:     appKey,
		botAccount: botAccount,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type bagInventoryRequest struct {
	IdentityID string `json:"identityId"`
	Available  bool   `json:"available"`
}

type bagTransferRequest struct {
	GiverID    string         `json:"giverId"`
	ReceiverID string         `json:"receiverId"`
	Items      []ItemQuantity `json:"items"`
}

type bagTransferResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

type bagChargeRequest struct {
	TargetID   string `json:"targetId"`
	ReceiverID string `json:"receiverId"`
	Amount     int    `json:"amount"`
}

func (b *BagService) GetSnapshot(ctx context.Context, holder string, availableOnly bool) (crate.Snapshot, error) {
	var snapshot crate.Snapshot
	err := b.post(ctx, "/api/get-inventory", bagInventoryRequest{
		IdentityID: holder,
		Available:  availableOnly,
	}, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory for %s: %w", holder, err)
	}
	return snapshot, nil
}

func (b *BagService) GiveItems(ctx context.Context, receiver string, items []ItemQuantity) (bool, error) {
	var resp bagTransferResponse
	err := b.post(ctx, "/api/transfer-items", bagTransferRequest{
		GiverID:    b.botAccount,
		ReceiverID: receiver,
		Items:      items,
	}, &resp)
	if err != nil {
		return false, fmt.Errorf("failed to transfer items to %s: %w", receiver, err)
	}
	if !resp.Success {
		b.logger.Warn("Item transfer rejected", "receiver", receiver, "reason", resp.Reason)
	}
	return resp.Success, nil
}

// ChargeUser offers the user a gp payment to the bot's account. The
// call blocks on the inventory service until the user accepts or
// declines the offer in their DMs.
func (b *BagService) ChargeUser(ctx context.Context, user string, amount int) (*ChargeResult, error) {
	var result ChargeResult
	err := b.post(ctx, "/api/offer-charge", bagChargeRequest{
		TargetID:   user,
		ReceiverID: b.botAccount,
		Amount:     amount,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to charge %s: %w", user, err)
	}
	return &result, nil
}

func (b *BagService) post(ctx context.Context, path string, payload, out interface{}) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+b.appKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
