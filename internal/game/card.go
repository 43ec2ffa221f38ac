package game

import "github.com/google/uuid"

type Suit string
type Rank string

const (
	Clubs    Suit = "c"
	Diamonds Suit = "d"
	Hearts   Suit = "h"
	Spades   Suit = "s"
)

const (
	Ace   Rank = "a"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "j"
	Queen Rank = "q"
	King  Rank = "k"
)

var suits = []Suit{Clubs, Diamonds, Hearts, Spades}
var ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Card is an immutable suit/rank pair. The ID is assigned once when the card
// pool for a shoe is generated, so the same card can move between the live
// stack, the in-play set, and the discards without losing its identity.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   Rank   `json:"rank"`
	FaceUp bool   `json:"faceUp"`
}

// Value returns the blackjack value of the card. An ace counts as 11 here;
// the evaluator decides when it must drop to 1.
func (c Card) Value() int {
	switch c.Rank {
	case Ace:
		return 11
	case Ten, Jack, Queen, King:
		return 10
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	default:
		return 0
	}
}

// IsTenValue reports whether the card counts 10 (relevant for split rules).
func (c Card) IsTenValue() bool {
	switch c.Rank {
	case Ten, Jack, Queen, King:
		return true
	}
	return false
}

// NewPack generates one 52-card pack spanning all suit and rank combinations.
func NewPack() []Card {
	pack := make([]Card, 0, 52)
	for _, suit := range suits {
		for _, rank := range ranks {
			pack = append(pack, Card{
				ID:   uuid.New().String(),
				Suit: suit,
				Rank: rank,
			})
		}
	}
	return pack
}
