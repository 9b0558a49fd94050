package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zarabot/crates/internal/services"
	"github.com/zarabot/crates/pkg/correlate"
	"github.com/zarabot/crates/pkg/crate"
	"github.com/zarabot/crates/pkg/item"
	"github.com/zarabot/crates/pkg/textfilter"
)

// Status tracks where a game is in its lifecycle.
type Status string

const (
	StatusGenerating        Status = "generating"
	StatusAwaitingPayment   Status = "awaiting_payment"
	StatusAwaitingSelection Status = "awaiting_selection"
	StatusSettled           Status = "settled"
	StatusDeclined          Status = "declined"
	StatusOutOfStock        Status = "out_of_stock"
	StatusRefunded          Status = "refunded"
	StatusFailed            Status = "failed"
)

// Done reports whether the status is terminal.
func (s Status) Done() bool {
	switch s {
	case StatusSettled, StatusDeclined, StatusOutOfStock, StatusRefunded, StatusFailed:
		return true
	}
	return false
}

// Game is one player's session: three crates, a price, and the
// correlation tokens for the decisions the player still owes. Games
// live in memory only and are discarded after settlement or failure.
type Game struct {
	ID   string
	User string

	mu     sync.Mutex
	status Status
	crates []crate.Crate
	cost   int
	chosen int
}

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Game) setStatus(s Status) {
	g.mu.Lock()
	g.status = s
	g.mu.Unlock()
}

// Cost returns the quoted play cost, 0 before generation completes.
func (g *Game) Cost() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cost
}

// Crates returns the generated crates.
func (g *Game) Crates() []crate.Crate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.crates
}

// Chosen returns the selected crate index, -1 before selection.
func (g *Game) Chosen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chosen
}

func (g *Game) setCrates(crates []crate.Crate, cost int) {
	g.mu.Lock()
	g.crates = crates
	g.cost = cost
	g.mu.Unlock()
}

func (g *Game) setChosen(index int) {
	g.mu.Lock()
	g.chosen = index
	g.mu.Unlock()
}

// CatalogProvider hands out the loaded item catalog.
type CatalogProvider interface {
	Catalog() *item.Catalog
}

// Config carries the game's tunables.
type Config struct {
	// BotAccount is the inventory identity crates are drawn from.
	BotAccount string

	// PriceFloor is the minimum play cost in gp.
	PriceFloor int

	// AllowedItems restricts the crate pool. Nil means the default
	// allow-list.
	AllowedItems []string

	// Retention is how long a finished game and its transcript stay
	// readable before they are discarded. Zero means DefaultRetention.
	Retention time.Duration
}

// DefaultRetention keeps finished games around long enough for a
// player to re-read the outcome.
const DefaultRetention = time.Hour

// Manager creates and runs game sessions. Sessions run concurrently,
// one goroutine each; every session works on its own snapshot, so
// generation passes never contend. The real inventory transfers at
// settlement are the only shared resource, and those rely on the
// inventory service's own atomicity.
type Manager struct {
	catalogs  CatalogProvider
	inventory services.Inventory
	narrator  services.Narrator
	cache     services.Cache
	registry  *correlate.Registry
	chat      Chat
	cfg       Config
	logger    *slog.Logger

	// newRNG is swappable so tests can pin seeds.
	newRNG func() *rand.Rand

	mu    sync.Mutex
	games map[string]*Game
}

// NewManager wires a session manager.
func NewManager(catalogs CatalogProvider, inventory services.Inventory, narrator services.Narrator, cache services.Cache, registry *correlate.Registry, chat Chat, cfg Config, logger *slog.Logger) *Manager {
	if cfg.PriceFloor == 0 {
		cfg.PriceFloor = crate.DefaultPriceFloor
	}
	if cfg.AllowedItems == nil {
		cfg.AllowedItems = crate.DefaultAllowList
	}
	if cfg.Retention == 0 {
		cfg.Retention = DefaultRetention
	}
	return &Manager{
		catalogs:  catalogs,
		inventory: inventory,
		narrator:  narrator,
		cache:     cache,
		registry:  registry,
		chat:      chat,
		cfg:       cfg,
		logger:    logger,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		games: make(map[string]*Game),
	}
}

// Start creates a game for the user and runs it in the background.
func (m *Manager) Start(user string) *Game {
	g := &Game{
		ID:     uuid.New().String(),
		User:   user,
		status: StatusGenerating,
		chosen: -1,
	}

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()

	go m.run(g)
	return g
}

// Game looks up a session by ID.
func (m *Manager) Game(id string) (*Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	return g, ok
}

// run plays one game end to end. Every await on the player goes
// through the correlation registry; a closed channel means the entry
// expired or was released, and the session gives up quietly.
func (m *Manager) run(g *Game) {
	ctx := context.Background()
	log := m.logger.With("game_id", g.ID, "user", g.User)
	defer m.scheduleCleanup(g)

	catalog := m.catalogs.Catalog()
	if catalog == nil {
		log.Error("Item catalog not loaded")
		g.setStatus(StatusFailed)
		return
	}

	snapshot, err := m.inventory.GetSnapshot(ctx, m.cfg.BotAccount, true)
	if err != nil {
		log.Error("Failed to fetch inventory snapshot", "error", err)
		g.setStatus(StatusFailed)
		return
	}

	generator := crate.NewGenerator(catalog)
	generator.Allowed = crate.AllowSet(m.cfg.AllowedItems)

	crates, err := generator.Generate(m.newRNG(), snapshot)
	if err != nil {
		if !errors.Is(err, crate.ErrOutOfStock) {
			log.Error("Crate generation failed", "error", err)
			g.setStatus(StatusFailed)
			return
		}
		m.post(ctx, g, Message{Text: msgOutOfStock, Context: contextOutOfStock})
		g.setStatus(StatusOutOfStock)
		return
	}

	values := crate.Values(crates, catalog)
	cost := crate.Price(values, m.cfg.PriceFloor)
	g.setCrates(crates, cost)
	log.Info("Generated crates", "values", values, "cost", cost)

	// Quote the price and wait for the pay decision.
	payToken, payCh := m.registry.Register(g.User, correlate.KindPayDecision)
	payMsgID := m.post(ctx, g, Message{
		Text:    msgOffer,
		Context: fmt.Sprintf("Accept the offer to pay %d gp", cost),
		Action: &ActionPrompt{
			Token: payToken,
			Kind:  correlate.KindPayDecision,
			Options: []Option{
				{Label: fmt.Sprintf("Pay %d gp", cost), Value: "accept"},
				{Label: "Walk away", Value: "decline"},
			},
		},
	})
	g.setStatus(StatusAwaitingPayment)

	decision, ok := <-payCh
	if !ok {
		m.update(ctx, g, payMsgID, Message{Text: msgOffer, Context: "The offer expired."})
		g.setStatus(StatusFailed)
		return
	}
	if decision.Value != "accept" {
		m.update(ctx, g, payMsgID, Message{
			Text:    msgOffer,
			Context: fmt.Sprintf("You declined the offer to pay %d gp", cost),
		})
		g.setStatus(StatusDeclined)
		return
	}

	result, err := m.inventory.ChargeUser(ctx, g.User, cost)
	if err != nil {
		log.Error("Charge failed", "error", err, "cost", cost)
		m.update(ctx, g, payMsgID, Message{
			Text:    msgOffer,
			Context: fmt.Sprintf("An error occurred when trying to charge you %d gp", cost),
		})
		g.setStatus(StatusFailed)
		return
	}
	if !result.Accepted {
		reason := fmt.Sprintf("An error occurred when trying to charge you %d gp", cost)
		switch result.Reason {
		case services.ChargeReasonInsufficient:
			reason = fmt.Sprintf("You don't have enough gp to pay %d gp", cost)
		case services.ChargeReasonDeclined:
			reason = fmt.Sprintf("You declined the offer to pay %d gp", cost)
		}
		m.update(ctx, g, payMsgID, Message{Text: msgOffer, Context: reason})
		g.setStatus(StatusDeclined)
		return
	}
	m.update(ctx, g, payMsgID, Message{
		Text:    msgOffer,
		Context: fmt.Sprintf("You handed Zara %d gp", cost),
	})

	// Narrative generation runs while the loading indicator shows.
	type hintResult struct {
		hint string
		err  error
	}
	hintCh := make(chan hintResult, 1)
	go func() {
		hint, err := m.narrator.GenerateHint(ctx, BuildHintMessages(crates, catalog))
		if err == nil && hint == "" {
			err = errors.New("no hint generated")
		}
		hintCh <- hintResult{hint: hint, err: err}
	}()

	loadingID := m.post(ctx, g, Message{Text: msgLoading})

	res := <-hintCh
	if res.err != nil {
		log.Error("Hint generation failed", "error", res.err)
		m.update(ctx, g, loadingID, Message{
			Text:    msgOutOfStock,
			Context: "Zara lost her train of thought. Please try again later.",
		})
		g.setStatus(StatusFailed)
		return
	}

	hintParts := textfilter.NormalizeHint(res.hint)
	if len(hintParts) == 0 {
		log.Error("Hint generation produced no usable text")
		m.update(ctx, g, loadingID, Message{
			Text:    msgOutOfStock,
			Context: "Zara lost her train of thought. Please try again later.",
		})
		g.setStatus(StatusFailed)
		return
	}
	hintMsgIDs := []string{loadingID}
	m.update(ctx, g, loadingID, Message{Text: hintParts[0]})
	for _, part := range hintParts[1:] {
		hintMsgIDs = append(hintMsgIDs, m.post(ctx, g, Message{Text: part}))
	}

	// Ask for the crate choice.
	selectToken, selectCh := m.registry.Register(g.User, correlate.KindCrateSelect)
	options := make([]Option, len(crates))
	for i := range crates {
		options[i] = Option{Label: fmt.Sprintf("Crate %d", i+1), Value: strconv.Itoa(i)}
	}
	selectMsgID := m.post(ctx, g, Message{
		Text: msgSelect,
		Action: &ActionPrompt{
			Token:   selectToken,
			Kind:    correlate.KindCrateSelect,
			Options: options,
		},
	})
	g.setStatus(StatusAwaitingSelection)

	choice, ok := <-selectCh
	if !ok {
		m.update(ctx, g, selectMsgID, Message{Text: msgSelect, Context: "The offer expired."})
		g.setStatus(StatusFailed)
		return
	}
	index, err := strconv.Atoi(choice.Value)
	if err != nil || index < 0 || index >= len(crates) {
		// The player already paid, so an out-of-range value is
		// compensated the same way as a stock race.
		log.Error("Invalid crate selection value", "value", choice.Value)
		m.update(ctx, g, selectMsgID, Message{Text: msgSelect, Context: contextInvalidSelection})
		m.refund(ctx, g, cost, Message{Text: msgInvalidSelection(cost), Context: contextInvalidSelection}, log)
		return
	}
	g.setChosen(index)
	chosenCrate := crates[index]

	m.update(ctx, g, selectMsgID, Message{
		Text:    msgSelect,
		Context: fmt.Sprintf("You selected crate %d", index+1),
	})

	// Settlement: hand over the crate, or refund on the stock race.
	items := make([]services.ItemQuantity, len(chosenCrate))
	for i, e := range chosenCrate {
		items[i] = services.ItemQuantity{Item: e.Item, Quantity: e.Quantity}
	}
	delivered, err := m.inventory.GiveItems(ctx, g.User, items)
	if err != nil {
		log.Error("Item transfer failed", "error", err)
		delivered = false
	}
	if !delivered {
		m.refund(ctx, g, cost, Message{Text: msgStockRace(index, cost), Context: contextStockRace}, log)
		return
	}

	m.recordStats(ctx, g, cost, log)

	m.post(ctx, g, Message{
		Text:    msgReveal(index) + "\n" + renderCrate(chosenCrate, catalog),
		Context: msgClosing,
	})

	// Reveal what was behind the other doors.
	for i, msgID := range hintMsgIDs {
		if i >= len(crates) || i >= len(hintParts) {
			break
		}
		selected := ""
		if i == index {
			selected = " (selected)"
		}
		m.update(ctx, g, msgID, Message{
			Text:    fmt.Sprintf("Crate %d%s\n%s\n%s", i+1, selected, hintParts[i], renderCrate(crates[i], catalog)),
		})
	}

	g.setStatus(StatusSettled)
	log.Info("Game settled", "crate", index, "value", chosenCrate.Value(catalog), "cost", cost)
}

// refund compensates the player when a paid game cannot deliver a
// crate, leading with the given explanation. A failed refund is the
// one condition that needs an operator.
func (m *Manager) refund(ctx context.Context, g *Game, cost int, msg Message, log *slog.Logger) {
	m.post(ctx, g, msg)

	refunded, err := m.inventory.GiveItems(ctx, g.User, []services.ItemQuantity{{Item: "gp", Quantity: cost}})
	if err != nil {
		log.Error("Refund transfer failed", "error", err, "cost", cost)
		refunded = false
	}
	if !refunded {
		log.Error("Could not refund user, operator intervention required", "cost", cost)
		m.post(ctx, g, Message{Text: msgRefundFailed(cost), Context: contextRefundFailed})
		g.setStatus(StatusFailed)
		return
	}
	g.setStatus(StatusRefunded)
}

// scheduleCleanup discards a finished game and its transcript once
// the retention window passes. Games live in memory only, so without
// this the manager would grow without bound.
func (m *Manager) scheduleCleanup(g *Game) {
	time.AfterFunc(m.cfg.Retention, func() {
		m.mu.Lock()
		delete(m.games, g.ID)
		m.mu.Unlock()

		if d, ok := m.chat.(interface{ Drop(gameID string) }); ok {
			d.Drop(g.ID)
		}
	})
}

// recordStats bumps the running counters. Stats are best-effort; a
// cache outage never fails a settled game.
func (m *Manager) recordStats(ctx context.Context, g *Game, cost int, log *slog.Logger) {
	if m.cache == nil {
		return
	}
	if _, err := m.cache.IncrBy(ctx, "stats:games_played", 1); err != nil {
		log.Warn("Failed to record games played", "error", err)
	}
	if _, err := m.cache.IncrBy(ctx, "stats:gp_collected", int64(cost)); err != nil {
		log.Warn("Failed to record gp collected", "error", err)
	}
	if _, err := m.cache.IncrBy(ctx, "stats:user:"+g.User+":games_played", 1); err != nil {
		log.Warn("Failed to record user games played", "error", err)
	}
}

func (m *Manager) post(ctx context.Context, g *Game, msg Message) string {
	id, err := m.chat.Post(ctx, g.ID, msg)
	if err != nil {
		m.logger.Error("Failed to post message", "game_id", g.ID, "error", err)
	}
	return id
}

func (m *Manager) update(ctx context.Context, g *Game, msgID string, msg Message) {
	if err := m.chat.Update(ctx, g.ID, msgID, msg); err != nil {
		m.logger.Error("Failed to update message", "game_id", g.ID, "message_id", msgID, "error", err)
	}
}
