package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zarabot/crates/pkg/correlate"
)

// ActionRequest is a player's response to an action prompt. The token
// comes from the prompt itself; kind and user are rechecked against
// what the session registered.
type ActionRequest struct {
	Token string `json:"token"`
	Kind  string `json:"kind"`
	User  string `json:"user"`
	Value string `json:"value"`
}

type ActionResponse struct {
	Accepted bool `json:"accepted"`
}

type ActionHandler struct {
	registry *correlate.Registry
	logger   *slog.Logger
}

func NewActionHandler(registry *correlate.Registry, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		registry: registry,
		logger:   logger,
	}
}

// ServeHTTP handles POST /v1/actions, delivering a player response to
// the session waiting on its token.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for actions endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		response := ErrorResponse{
			Error: "Method not allowed. Supported methods: POST",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Invalid JSON in request body",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if req.Token == "" {
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "token field is required",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	err := h.registry.Resolve(req.Token, correlate.Event{
		Kind:  req.Kind,
		User:  req.User,
		Value: req.Value,
	})
	if err != nil {
		h.writeResolveError(w, req, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ActionResponse{Accepted: true}); err != nil {
		h.logger.Error("Failed to encode action response", "error", err)
	}
}

// writeResolveError maps registry errors to API responses. An expired
// token is the player's problem; a kind mismatch is ours.
func (h *ActionHandler) writeResolveError(w http.ResponseWriter, req ActionRequest, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, correlate.ErrExpired):
		status = http.StatusGone
		message = "This action has expired"

	case errors.Is(err, correlate.ErrUnauthorized):
		h.logger.Warn("Unauthorized action attempt", "user", req.User, "kind", req.Kind)
		status = http.StatusForbidden
		message = "You are not authorized to perform this action"

	case errors.Is(err, correlate.ErrKindMismatch):
		h.logger.Error("Action kind mismatch", "kind", req.Kind, "error", err)
		status = http.StatusInternalServerError
		message = "Internal server error"

	default:
		h.logger.Error("Failed to resolve action", "error", err)
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	w.WriteHeader(status)
	response := ErrorResponse{
		Error: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
