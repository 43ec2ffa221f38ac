package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cardroom/blackjack-be/internal/db"
	"github.com/cardroom/blackjack-be/internal/game"
	"github.com/cardroom/blackjack-be/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const defaultChips = 1000

// Handlers maps HTTP requests onto game sessions. Each table gets one
// session (and therefore one shoe and one lock); the maps here only route
// requests to the right session.
type Handlers struct {
	store    store.Store
	ledger   game.Ledger
	database *db.Database
	hub      *Hub
	rng      game.RNG
	logger   *slog.Logger

	mu         sync.RWMutex
	sessions   map[string]*game.Session // by table id
	gameTables map[string]string        // game id -> table id
}

// NewHandlers creates the API handlers. database may be nil when running
// purely in memory.
func NewHandlers(st store.Store, ledger game.Ledger, database *db.Database, hub *Hub, rng game.RNG, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:      st,
		ledger:     ledger,
		database:   database,
		hub:        hub,
		rng:        rng,
		logger:     logger,
		sessions:   make(map[string]*game.Session),
		gameTables: make(map[string]string),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/game/new", h.NewGame).Methods("POST")
	r.HandleFunc("/api/game/{id}/hit", h.handAction(func(handID string) game.Action { return game.Hit{HandID: handID} })).Methods("POST")
	r.HandleFunc("/api/game/{id}/split", h.handAction(func(handID string) game.Action { return game.Split{HandID: handID} })).Methods("POST")
	r.HandleFunc("/api/game/{id}/double", h.handAction(func(handID string) game.Action { return game.Double{HandID: handID} })).Methods("POST")
	r.HandleFunc("/api/game/{id}/surrender", h.handAction(func(handID string) game.Action { return game.Surrender{HandID: handID} })).Methods("POST")
	r.HandleFunc("/api/game/{id}/insurance", h.handAction(func(handID string) game.Action { return game.Insure{HandID: handID} })).Methods("POST")
	r.HandleFunc("/api/game/{id}/advance", h.gameAction(game.Advance{})).Methods("POST")
	r.HandleFunc("/api/game/{id}/dealer", h.gameAction(game.CompleteDealer{})).Methods("POST")
	r.HandleFunc("/api/game/{id}/settle", h.gameAction(game.Settle{})).Methods("POST")
	r.HandleFunc("/api/game/{id}", h.GetGame).Methods("GET")

	r.HandleFunc("/api/table/{id}/games", h.TableGames).Methods("GET")

	r.HandleFunc("/api/player/register", h.RegisterPlayer).Methods("POST")
	r.HandleFunc("/api/player/{id}", h.GetPlayer).Methods("GET")

	r.HandleFunc("/ws", h.hub.Handler)
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, game.ErrInvalidAction), errors.Is(err, game.ErrShoeExhausted):
		status = http.StatusConflict
	case errors.Is(err, game.ErrRuleViolation):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

// sessionForTable returns the table's session, creating it on first use.
func (h *Handlers) sessionForTable(tableID string) *game.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	sess, exists := h.sessions[tableID]
	if !exists {
		sess = game.NewSession(tableID, h.ledger, h.store, h.rng)
		h.sessions[tableID] = sess
	}
	return sess
}

// sessionForGame routes a game id to its table's session.
func (h *Handlers) sessionForGame(gameID string) (*game.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	tableID, ok := h.gameTables[gameID]
	if !ok {
		return nil, false
	}
	sess, ok := h.sessions[tableID]
	return sess, ok
}

// NewGame starts a round: debits the bets, deals, and opens the game.
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TableID  string        `json:"tableId"`
		PlayerID string        `json:"playerId"`
		Bets     []int         `json:"bets"`
		Rules    *game.RuleSet `json:"rules,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PlayerID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "playerId is required"})
		return
	}
	if req.TableID == "" {
		req.TableID = uuid.New().String()
	}

	sess := h.sessionForTable(req.TableID)
	g, err := sess.StartGame(req.PlayerID, req.Bets, req.Rules)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.mu.Lock()
	h.gameTables[g.ID] = req.TableID
	h.mu.Unlock()

	h.broadcast("gameStarted", g)
	respond(w, http.StatusCreated, g.View(req.PlayerID))
}

type actionRequest struct {
	HandID   string `json:"handId"`
	PlayerID string `json:"playerId"`
}

// handAction builds a handler for actions that target a specific hand.
func (h *Handlers) handAction(build func(handID string) game.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HandID == "" {
			respond(w, http.StatusBadRequest, map[string]string{"error": "handId is required"})
			return
		}
		h.apply(w, mux.Vars(r)["id"], build(req.HandID), req.PlayerID)
	}
}

// gameAction builds a handler for actions that target the whole game.
func (h *Handlers) gameAction(action game.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		// body is optional for game-level actions
		json.NewDecoder(r.Body).Decode(&req)
		h.apply(w, mux.Vars(r)["id"], action, req.PlayerID)
	}
}

func (h *Handlers) apply(w http.ResponseWriter, gameID string, action game.Action, playerID string) {
	sess, ok := h.sessionForGame(gameID)
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "game not found"})
		return
	}
	g, err := sess.Apply(gameID, action)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.broadcast("gameUpdated", g)
	respond(w, http.StatusOK, g.View(playerID))
}

// GetGame returns the current snapshot of a game, falling back to persisted
// history for settled rounds of older sessions.
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := r.URL.Query().Get("playerId")

	if sess, ok := h.sessionForGame(gameID); ok {
		if g := sess.Game(); g != nil && g.ID == gameID {
			respond(w, http.StatusOK, g.View(playerID))
			return
		}
	}
	g, err := h.store.LoadGame(gameID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, g.View(playerID))
}

// TableGames lists the games played at a table, newest first.
func (h *Handlers) TableGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.store.GamesForTable(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	views := make([]map[string]interface{}, len(games))
	for i, g := range games {
		views[i] = g.View(r.URL.Query().Get("playerId"))
	}
	respond(w, http.StatusOK, views)
}

// RegisterPlayer creates a player account with the default chip balance.
func (h *Handlers) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	playerID := uuid.New().String()
	if h.database != nil {
		if err := h.database.CreatePlayer(playerID, req.Name, defaultChips); err != nil {
			h.respondError(w, err)
			return
		}
	} else if ml, ok := h.ledger.(*store.MemoryLedger); ok {
		ml.SetBalance(playerID, defaultChips)
	}

	respond(w, http.StatusCreated, map[string]interface{}{
		"id":    playerID,
		"name":  req.Name,
		"chips": defaultChips,
	})
}

// GetPlayer returns a player's name and balance.
func (h *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	if h.database != nil {
		name, chips, err := h.database.GetPlayer(playerID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		respond(w, http.StatusOK, map[string]interface{}{"id": playerID, "name": name, "chips": chips})
		return
	}
	if ml, ok := h.ledger.(*store.MemoryLedger); ok {
		respond(w, http.StatusOK, map[string]interface{}{"id": playerID, "chips": ml.Balance(playerID)})
		return
	}
	respond(w, http.StatusNotFound, map[string]string{"error": "player not found"})
}

func (h *Handlers) broadcast(msgType string, g *game.Game) {
	if h.hub == nil {
		return
	}
	// Broadcasts go to the whole table, so use the spectator view.
	h.hub.BroadcastToTable(g.TableID, Message{
		Type:    msgType,
		GameID:  g.ID,
		TableID: g.TableID,
		Data:    g.View(""),
	})
}
