package store

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cardroom/blackjack-be/internal/game"
)

func TestMemoryStoreGameRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	g := &game.Game{ID: "g1", TableID: "t1", State: game.StateStarted}
	if err := s.SaveGame(g); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.LoadGame("g1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != "g1" || loaded.TableID != "t1" {
		t.Fatalf("loaded the wrong game: %+v", loaded)
	}

	if _, err := s.LoadGame("missing"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreGamesForTableNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	s.SaveGame(&game.Game{ID: "g1", TableID: "t1"})
	s.SaveGame(&game.Game{ID: "g2", TableID: "t1"})
	s.SaveGame(&game.Game{ID: "g3", TableID: "t2"})

	games, err := s.GamesForTable("t1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(games) != 2 || games[0].ID != "g2" || games[1].ID != "g1" {
		t.Fatalf("wrong order or contents: %+v", games)
	}
}

func TestMemoryStoreHandsForGame(t *testing.T) {
	s := NewMemoryStore()
	s.SaveHand(&game.Hand{ID: "h2", GameID: "g1", Seat: 1})
	s.SaveHand(&game.Hand{ID: "h1", GameID: "g1", Seat: 0})
	s.SaveHand(&game.Hand{ID: "h3", GameID: "g2", Seat: 0})

	hands, err := s.HandsForGame("g1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(hands) != 2 || hands[0].Seat != 0 || hands[1].Seat != 1 {
		t.Fatalf("wrong hands or order: %+v", hands)
	}
}

func TestMemoryStoreShoeRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	shoe := game.NewShoe(1, rand.New(rand.NewSource(1)))
	if err := s.SaveShoe("t1", shoe); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := s.LoadShoe("t1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.LiveCards) != 52 {
		t.Fatalf("expected 52 live cards, got %d", len(loaded.LiveCards))
	}
}

func TestMemoryLedger(t *testing.T) {
	l := NewMemoryLedger()
	l.SetBalance("p1", 100)

	if err := l.Debit("p1", 40); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if err := l.Credit("p1", 10); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if got := l.Balance("p1"); got != 70 {
		t.Fatalf("balance = %d, want 70", got)
	}

	if err := l.Debit("p1", 1000); !errors.Is(err, game.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance("p1"); got != 70 {
		t.Fatalf("a failed debit must not change the balance, got %d", got)
	}

	if err := l.Debit("ghost", 1); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown player, got %v", err)
	}
	if err := l.Credit("ghost", 1); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown player, got %v", err)
	}
}
