package game

import "github.com/google/uuid"

// HandResult is the settled outcome of a hand. The single-letter values are
// the persisted encoding.
type HandResult string

const (
	ResultUnset     HandResult = ""
	ResultPush      HandResult = "p"
	ResultWin       HandResult = "w"
	ResultLoss      HandResult = "l"
	ResultBlackjack HandResult = "b"
	ResultSurrender HandResult = "s"
	ResultInsurance HandResult = "i"
)

// Hand is one bet's worth of cards at a seat. A split inserts an extra hand
// at the same seat. The owning session mutates a hand during dealing and
// action resolution; once Result is set the hand is history.
type Hand struct {
	ID                string     `json:"id"`
	GameID            string     `json:"gameId"`
	PlayerID          string     `json:"playerId"`
	Seat              int        `json:"seat"`
	Cards             []Card     `json:"cards"`
	Bet               int        `json:"bet"`
	IsDoubled         bool       `json:"isDoubled"`
	IsInsured         bool       `json:"isInsured"`
	IsSplit           bool       `json:"isSplit"`
	SplitFromTenOrAce bool       `json:"splitFromTenOrAce"`
	Surrendered       bool       `json:"surrendered"`
	Result            HandResult `json:"result,omitempty"`
	Payout            int        `json:"payout"`
}

// NewHand creates a hand for a placed bet.
func NewHand(playerID string, seat, bet int, cards []Card) *Hand {
	return &Hand{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		Seat:     seat,
		Cards:    cards,
		Bet:      bet,
	}
}

// IsFinished reports whether the hand can take no further cards: settled,
// surrendered, busted, closed by a double down, or a natural two-card 21.
func (h *Hand) IsFinished() bool {
	if h.Result != ResultUnset || h.Surrendered {
		return true
	}
	if h.IsDoubled && len(h.Cards) > 2 {
		return true
	}
	total := Total(h.Cards)
	if total > 21 {
		return true
	}
	return total == 21 && len(h.Cards) == 2
}

// splitFromAces reports whether this hand came out of splitting a pair of
// aces. After a split the retained original card sits first.
func (h *Hand) splitFromAces() bool {
	return h.IsSplit && len(h.Cards) > 0 && h.Cards[0].Rank == Ace
}
