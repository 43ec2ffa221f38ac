package game

import (
	"time"

	"github.com/google/uuid"
)

type GameState string

const (
	StateNotStarted GameState = "notStarted"
	StateStarted    GameState = "started"
	StateHit        GameState = "hit"
	StateStood      GameState = "stood"
	StateSplit      GameState = "split"
	StateFinished   GameState = "finished" // dealer's hand is complete
	StateSettled    GameState = "settled"  // terminal
)

// Game is one played round at a table. It owns its hands for the duration of
// the round; once settled they remain only as history records.
type Game struct {
	ID          string    `json:"id"`
	TableID     string    `json:"tableId"`
	Hands       []*Hand   `json:"hands"`
	DealerCards []Card    `json:"dealerCards"`
	CurrentHand int       `json:"currentHand"`
	CurrentSeat int       `json:"currentSeat"`
	Rules       RuleSet   `json:"rules"`
	Seats       int       `json:"seats"`
	State       GameState `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newGame(tableID string, rules RuleSet, seats int) *Game {
	now := time.Now()
	return &Game{
		ID:        uuid.New().String(),
		TableID:   tableID,
		Rules:     rules,
		Seats:     seats,
		State:     StateNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// handByID finds a hand in this round.
func (g *Game) handByID(id string) (*Hand, int, error) {
	for i, h := range g.Hands {
		if h.ID == id {
			return h, i, nil
		}
	}
	return nil, -1, ErrNotFound
}

// splitsAtSeat counts how many times the seat's original hand has already
// been split.
func (g *Game) splitsAtSeat(seat int) int {
	n := 0
	for _, h := range g.Hands {
		if h.Seat == seat {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// open reports whether the round still accepts player actions.
func (g *Game) open() bool {
	switch g.State {
	case StateStarted, StateHit, StateStood, StateSplit:
		return true
	}
	return false
}

func (g *Game) touch() {
	g.UpdatedAt = time.Now()
}
