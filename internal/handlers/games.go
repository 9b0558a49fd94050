package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/zarabot/crates/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateGameRequest starts a game for a user.
type CreateGameRequest struct {
	User string `json:"user"`
}

// GameResponse is the API view of a game: lifecycle status plus the
// rendered transcript. Crate contents are never exposed directly;
// the transcript reveals them when Zara does.
type GameResponse struct {
	ID       string            `json:"id"`
	User     string            `json:"user"`
	Status   session.Status    `json:"status"`
	Done     bool              `json:"done"`
	Cost     int               `json:"cost,omitempty"`
	Messages []session.Message `json:"messages"`
}

type GameHandler struct {
	manager    *session.Manager
	transcript *session.Transcript
	logger     *slog.Logger
}

func NewGameHandler(manager *session.Manager, transcript *session.Transcript, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		manager:    manager,
		transcript: transcript,
		logger:     logger,
	}
}

// ServeHTTP handles HTTP requests for game operations
// Routes:
// POST /v1/games      - Start a new game
// GET /v1/games/{id}  - Read a game's status and transcript
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/games")
	var gameID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		gameID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid game ID", "id", idStr, "error", err)
			w.WriteHeader(http.StatusBadRequest)
			response := ErrorResponse{
				Error: "Invalid game ID format",
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				h.logger.Error("Failed to encode error response", "error", err)
			}
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if gameID == uuid.Nil {
			h.logger.Warn("GET request without game ID")
			w.WriteHeader(http.StatusBadRequest)
			response := ErrorResponse{
				Error: "Game ID is required for GET requests",
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				h.logger.Error("Failed to encode error response", "error", err)
			}
			return
		}
		h.handleRead(w, gameID)

	default:
		h.logger.Warn("Method not allowed for games endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		response := ErrorResponse{
			Error: "Method not allowed. Supported methods: POST, GET",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
	}
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
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

	req.User = strings.TrimSpace(req.User)
	if req.User == "" {
		h.logger.Warn("Missing required field: user")
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "user field is required",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	g := h.manager.Start(req.User)
	h.logger.Debug("Game started", "id", g.ID, "user", g.User)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.gameResponse(g)); err != nil {
		h.logger.Error("Failed to encode game response", "error", err)
	}
}

func (h *GameHandler) handleRead(w http.ResponseWriter, gameID uuid.UUID) {
	g, ok := h.manager.Game(gameID.String())
	if !ok {
		h.logger.Warn("Game not found", "id", gameID.String())
		w.WriteHeader(http.StatusNotFound)
		response := ErrorResponse{
			Error: "Game not found",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.gameResponse(g)); err != nil {
		h.logger.Error("Failed to encode game response", "error", err)
	}
}

func (h *GameHandler) gameResponse(g *session.Game) GameResponse {
	status := g.Status()
	return GameResponse{
		ID:       g.ID,
		User:     g.User,
		Status:   status,
		Done:     status.Done(),
		Cost:     g.Cost(),
		Messages: h.transcript.Messages(g.ID),
	}
}
