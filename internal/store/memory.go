package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cardroom/blackjack-be/internal/game"
)

// MemoryStore is an in-memory Repository for tables that run without a
// database.
type MemoryStore struct {
	mu     sync.RWMutex
	games  map[string]*game.Game
	hands  map[string]*game.Hand
	shoes  map[string]*game.Shoe
	tables map[string][]string // tableID -> game ids, oldest first
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:  make(map[string]*game.Game),
		hands:  make(map[string]*game.Hand),
		shoes:  make(map[string]*game.Shoe),
		tables: make(map[string][]string),
	}
}

func (s *MemoryStore) SaveGame(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[g.ID]; !exists {
		s.tables[g.TableID] = append(s.tables[g.TableID], g.ID)
	}
	s.games[g.ID] = g
	return nil
}

func (s *MemoryStore) SaveHand(h *game.Hand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hands[h.ID] = h
	return nil
}

func (s *MemoryStore) SaveShoe(tableID string, shoe *game.Shoe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shoes[tableID] = shoe
	return nil
}

func (s *MemoryStore) LoadGame(id string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.games[id]
	if !exists {
		return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
	}
	return g, nil
}

func (s *MemoryStore) LoadHand(id string) (*game.Hand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, exists := s.hands[id]
	if !exists {
		return nil, fmt.Errorf("hand %s: %w", id, game.ErrNotFound)
	}
	return h, nil
}

func (s *MemoryStore) LoadShoe(tableID string) (*game.Shoe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shoe, exists := s.shoes[tableID]
	if !exists {
		return nil, fmt.Errorf("shoe for table %s: %w", tableID, game.ErrNotFound)
	}
	return shoe, nil
}

func (s *MemoryStore) GamesForTable(tableID string) ([]*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.tables[tableID]
	games := make([]*game.Game, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		games = append(games, s.games[ids[i]])
	}
	return games, nil
}

func (s *MemoryStore) HandsForGame(gameID string) ([]*game.Hand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hands []*game.Hand
	for _, h := range s.hands {
		if h.GameID == gameID {
			hands = append(hands, h)
		}
	}
	sort.Slice(hands, func(i, j int) bool { return hands[i].Seat < hands[j].Seat })
	return hands, nil
}

// MemoryLedger is an in-memory chip ledger.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int
}

// NewMemoryLedger creates a ledger with no accounts.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int)}
}

// SetBalance seeds or overwrites a player's balance.
func (l *MemoryLedger) SetBalance(playerID string, chips int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] = chips
}

// Balance returns a player's chip count.
func (l *MemoryLedger) Balance(playerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[playerID]
}

func (l *MemoryLedger) Debit(playerID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, exists := l.balances[playerID]
	if !exists {
		return fmt.Errorf("player %s: %w", playerID, game.ErrNotFound)
	}
	if balance < amount {
		return fmt.Errorf("player %s has %d chips, needs %d: %w", playerID, balance, amount, game.ErrInsufficientFunds)
	}
	l.balances[playerID] = balance - amount
	return nil
}

func (l *MemoryLedger) Credit(playerID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.balances[playerID]; !exists {
		return fmt.Errorf("player %s: %w", playerID, game.ErrNotFound)
	}
	l.balances[playerID] += amount
	return nil
}
