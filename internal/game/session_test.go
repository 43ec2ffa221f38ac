package game

import (
	"errors"
	"fmt"
	"testing"
)

// fakeLedger is a minimal in-memory ledger for session tests.
type fakeLedger struct {
	balances map[string]int
}

func newFakeLedger(playerID string, chips int) *fakeLedger {
	return &fakeLedger{balances: map[string]int{playerID: chips}}
}

func (l *fakeLedger) Debit(playerID string, amount int) error {
	if l.balances[playerID] < amount {
		return fmt.Errorf("player %s: %w", playerID, ErrInsufficientFunds)
	}
	l.balances[playerID] -= amount
	return nil
}

func (l *fakeLedger) Credit(playerID string, amount int) error {
	l.balances[playerID] += amount
	return nil
}

func startGame(t *testing.T, ledger *fakeLedger, bets []int, rules *RuleSet) *Session {
	t.Helper()
	sess := NewSession("table-1", ledger, nil, testRNG(42))
	if _, err := sess.StartGame("p1", bets, rules); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	return sess
}

func TestStartGameDealShape(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game

	if g.State != StateStarted {
		t.Fatalf("state = %s, want started", g.State)
	}
	if len(g.Hands) != 1 || len(g.Hands[0].Cards) != 2 {
		t.Fatalf("expected one hand with two cards")
	}
	if len(g.DealerCards) != 2 {
		t.Fatalf("dealer should hold two cards")
	}
	if !g.DealerCards[0].FaceUp || g.DealerCards[1].FaceUp {
		t.Fatalf("dealer must show the first card and hide the hole card")
	}
	if len(sess.shoe.InPlay) != 4 {
		t.Fatalf("inPlay = %d, want 4", len(sess.shoe.InPlay))
	}
	if len(sess.shoe.LiveCards) != 312-4 {
		t.Fatalf("liveCards = %d, want %d", len(sess.shoe.LiveCards), 312-4)
	}
	if ledger.balances["p1"] != 990 {
		t.Fatalf("balance = %d, want 990", ledger.balances["p1"])
	}
}

func TestStartGameDealsRoundRobin(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := NewSession("table-1", ledger, nil, testRNG(7))
	// Peek at the top of the shoe before dealing by starting once, then
	// reconstructing the expected order from the in-play set.
	g, err := sess.StartGame("p1", []int{10, 10}, nil)
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	drawn := sess.shoe.InPlay
	if len(drawn) != 6 {
		t.Fatalf("expected 6 cards in play, got %d", len(drawn))
	}
	// Three participants: seat 0, seat 1, dealer, twice around.
	if g.Hands[0].Cards[0].ID != drawn[0].ID || g.Hands[0].Cards[1].ID != drawn[3].ID {
		t.Fatalf("seat 0 did not receive the 1st and 4th cards")
	}
	if g.Hands[1].Cards[0].ID != drawn[1].ID || g.Hands[1].Cards[1].ID != drawn[4].ID {
		t.Fatalf("seat 1 did not receive the 2nd and 5th cards")
	}
	if g.DealerCards[0].ID != drawn[2].ID || g.DealerCards[1].ID != drawn[5].ID {
		t.Fatalf("dealer did not receive the 3rd and 6th cards")
	}
}

func TestStartGameInsufficientFunds(t *testing.T) {
	ledger := newFakeLedger("p1", 5)
	sess := NewSession("table-1", ledger, nil, testRNG(1))
	if _, err := sess.StartGame("p1", []int{10}, nil); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if ledger.balances["p1"] != 5 {
		t.Fatalf("a rejected game must not touch the balance")
	}
}

func TestStartGameBetValidation(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := NewSession("table-1", ledger, nil, testRNG(1))

	if _, err := sess.StartGame("p1", []int{3}, nil); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("off-increment bet should be rejected, got %v", err)
	}
	if _, err := sess.StartGame("p1", []int{5000}, nil); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("bet above the maximum should be rejected, got %v", err)
	}
	if _, err := sess.StartGame("p1", []int{10, 10, 10, 10, 10, 10}, nil); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("more bets than seats should be rejected, got %v", err)
	}
	if _, err := sess.StartGame("p1", nil, nil); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("a game needs at least one bet, got %v", err)
	}
}

func TestOnlyOneOpenGamePerTable(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	if _, err := sess.StartGame("p1", []int{10}, nil); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for a second open game, got %v", err)
	}
}

func TestHit(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	// Force a hand that cannot be finished so the hit is always legal.
	h.Cards = cardsOf(Two, Three)

	if _, err := sess.Apply(g.ID, Hit{HandID: h.ID}); err != nil {
		t.Fatalf("hit failed: %v", err)
	}
	if len(h.Cards) != 3 || !h.Cards[2].FaceUp {
		t.Fatalf("hit must append one face-up card")
	}
	if g.State != StateHit {
		t.Fatalf("state = %s, want hit", g.State)
	}
}

func TestHitUnknownHand(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	if _, err := sess.Apply(sess.game.ID, Hit{HandID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHitFinishedHand(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	h := sess.game.Hands[0]
	h.Cards = cardsOf(Ten, Nine, Five) // busted

	if _, err := sess.Apply(sess.game.ID, Hit{HandID: h.ID}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for a busted hand, got %v", err)
	}
}

func TestSplit(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	h.Cards = cardsOf(Eight, Eight)

	if _, err := sess.Apply(g.ID, Split{HandID: h.ID}); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(g.Hands) != 2 {
		t.Fatalf("expected two hands after a split, got %d", len(g.Hands))
	}
	first, second := g.Hands[0], g.Hands[1]
	if first.Seat != second.Seat || first.Bet != second.Bet {
		t.Fatalf("split hands must share seat and bet")
	}
	if len(first.Cards) != 2 || len(second.Cards) != 2 {
		t.Fatalf("each split hand must hold two cards")
	}
	if !first.IsSplit || !second.IsSplit {
		t.Fatalf("both hands must be marked as split")
	}
	if first.SplitFromTenOrAce || second.SplitFromTenOrAce {
		t.Fatalf("eights are not tens or aces")
	}
	if g.State != StateSplit {
		t.Fatalf("state = %s, want split", g.State)
	}
	if ledger.balances["p1"] != 980 {
		t.Fatalf("the second hand's bet was not debited: balance %d", ledger.balances["p1"])
	}
}

func TestSplitNonPair(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	h := sess.game.Hands[0]
	h.Cards = cardsOf(Eight, Nine)

	if _, err := sess.Apply(sess.game.ID, Split{HandID: h.ID}); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("expected ErrRuleViolation, got %v", err)
	}
	if len(sess.game.Hands) != 1 {
		t.Fatalf("a rejected split must not add a hand")
	}
}

func TestSplitTenAndKing(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	h.Cards = cardsOf(Ten, King)

	if _, err := sess.Apply(g.ID, Split{HandID: h.ID}); err != nil {
		t.Fatalf("mixed ten-value split should be allowed by default: %v", err)
	}
	if !g.Hands[0].SplitFromTenOrAce || !g.Hands[1].SplitFromTenOrAce {
		t.Fatalf("a ten-value split must set splitFromTenOrAce")
	}
}

func TestSplitAcesLimitsHits(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	h.Cards = cardsOf(Ace, Ace)

	if _, err := sess.Apply(g.ID, Split{HandID: h.ID}); err != nil {
		t.Fatalf("ace split failed: %v", err)
	}
	first := g.Hands[0]
	if !first.SplitFromTenOrAce {
		t.Fatalf("an ace split must set splitFromTenOrAce")
	}
	// Rig the hand so it stays hittable, then use up the one allowed hit.
	first.Cards = []Card{{Rank: Ace, Suit: Spades}, {Rank: Two, Suit: Hearts}}
	if _, err := sess.Apply(g.ID, Hit{HandID: first.ID}); err != nil {
		t.Fatalf("the first hit after an ace split is allowed: %v", err)
	}
	first.Cards[2] = Card{Rank: Three, Suit: Clubs} // keep the hand under 21
	if _, err := sess.Apply(g.ID, Hit{HandID: first.ID}); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("expected ErrRuleViolation on the second hit, got %v", err)
	}
}

func TestSplitLimitPerSeat(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	rules := DefaultRules()
	rules.NumberOfSplitsAllowed = 1
	sess := startGame(t, ledger, []int{10}, &rules)
	g := sess.game

	g.Hands[0].Cards = cardsOf(Eight, Eight)
	if _, err := sess.Apply(g.ID, Split{HandID: g.Hands[0].ID}); err != nil {
		t.Fatalf("first split failed: %v", err)
	}
	g.Hands[0].Cards = cardsOf(Eight, Eight)
	if _, err := sess.Apply(g.ID, Split{HandID: g.Hands[0].ID}); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("expected the split limit to apply, got %v", err)
	}
}

func TestDoubleDown(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	h.Cards = cardsOf(Five, Six) // 11

	if _, err := sess.Apply(g.ID, Double{HandID: h.ID}); err != nil {
		t.Fatalf("double down failed: %v", err)
	}
	if !h.IsDoubled || len(h.Cards) != 3 {
		t.Fatalf("double down must mark the hand and deal exactly one card")
	}
	if ledger.balances["p1"] != 980 {
		t.Fatalf("double down must debit a second bet: balance %d", ledger.balances["p1"])
	}
	if _, err := sess.Apply(g.ID, Hit{HandID: h.ID}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("a doubled hand takes no more cards, got %v", err)
	}
}

func TestDoubleDownTotalRestricted(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	h := sess.game.Hands[0]
	h.Cards = cardsOf(Ten, Two) // 12 is not in the default 9/10/11

	if _, err := sess.Apply(sess.game.ID, Double{HandID: h.ID}); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("expected ErrRuleViolation, got %v", err)
	}
	if ledger.balances["p1"] != 990 {
		t.Fatalf("a rejected double must not debit")
	}
}

func TestSurrender(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	rules := DefaultRules()
	rules.AllowLateSurrender = true
	sess := startGame(t, ledger, []int{10}, &rules)
	h := sess.game.Hands[0]
	h.Cards = cardsOf(Ten, Six)

	if _, err := sess.Apply(sess.game.ID, Surrender{HandID: h.ID}); err != nil {
		t.Fatalf("surrender failed: %v", err)
	}
	if !h.Surrendered {
		t.Fatalf("hand must be marked surrendered")
	}
}

func TestSurrenderNotOffered(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	h := sess.game.Hands[0]
	h.Cards = cardsOf(Ten, Six)

	if _, err := sess.Apply(sess.game.ID, Surrender{HandID: h.ID}); !errors.Is(err, ErrRuleViolation) {
		t.Fatalf("expected ErrRuleViolation, got %v", err)
	}
}

func TestInsurance(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	h.Cards = cardsOf(Ten, Six)
	g.DealerCards[0] = Card{Rank: Ace, Suit: Spades, FaceUp: true}

	if _, err := sess.Apply(g.ID, Insure{HandID: h.ID}); err != nil {
		t.Fatalf("insurance failed: %v", err)
	}
	if !h.IsInsured {
		t.Fatalf("hand must be marked insured")
	}
	if ledger.balances["p1"] != 985 {
		t.Fatalf("insurance costs half the bet: balance %d", ledger.balances["p1"])
	}
}

func TestInsuranceRequiresDealerAce(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	h := g.Hands[0]
	h.Cards = cardsOf(Ten, Six)
	g.DealerCards[0] = Card{Rank: Nine, Suit: Spades, FaceUp: true}

	if _, err := sess.Apply(g.ID, Insure{HandID: h.ID}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestAdvancePastLastHandPlaysTheDealer(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game

	if _, err := sess.Apply(g.ID, Advance{}); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if g.State != StateFinished {
		t.Fatalf("state = %s, want finished", g.State)
	}
	for _, c := range g.DealerCards {
		if !c.FaceUp {
			t.Fatalf("the dealer's cards must all be revealed")
		}
	}
	if !DealerShouldStop(g.DealerCards, g.Rules.DealerStandsOnSoft17) {
		t.Fatalf("dealer stopped drawing too early")
	}
}

func TestAdvanceMovesCursorAcrossSeats(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10, 10}, nil)
	g := sess.game

	if _, err := sess.Apply(g.ID, Advance{}); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if g.CurrentHand != 1 || g.CurrentSeat != 1 {
		t.Fatalf("cursor = hand %d seat %d, want hand 1 seat 1", g.CurrentHand, g.CurrentSeat)
	}
	if g.State != StateStood {
		t.Fatalf("state = %s, want stood", g.State)
	}
}

func TestSplitHandsShareTheSeatOnAdvance(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	g.Hands[0].Cards = cardsOf(Eight, Eight)
	if _, err := sess.Apply(g.ID, Split{HandID: g.Hands[0].ID}); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	if _, err := sess.Apply(g.ID, Advance{}); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if g.CurrentHand != 1 || g.CurrentSeat != 0 {
		t.Fatalf("cursor = hand %d seat %d, want hand 1 seat 0", g.CurrentHand, g.CurrentSeat)
	}
}

func TestSettleGame(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game

	// Rig a known finish: player 19 beats dealer 18.
	g.Hands[0].Cards = cardsOf(Ten, Nine)
	g.DealerCards = cardsOf(Ten, Eight)
	g.State = StateFinished

	if _, err := sess.Apply(g.ID, Settle{}); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if g.State != StateSettled {
		t.Fatalf("state = %s, want settled", g.State)
	}
	h := g.Hands[0]
	if h.Result != ResultWin || h.Payout != 20 {
		t.Fatalf("got (%s, %d), want (w, 20)", h.Result, h.Payout)
	}
	if ledger.balances["p1"] != 1010 {
		t.Fatalf("balance = %d, want 1010", ledger.balances["p1"])
	}
	if len(sess.shoe.InPlay) != 0 {
		t.Fatalf("settlement must move in-play cards to the discards")
	}
	if len(sess.shoe.Discards) != 4 {
		t.Fatalf("discards = %d, want 4", len(sess.shoe.Discards))
	}
}

func TestSettleRequiresFinishedGame(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	if _, err := sess.Apply(sess.game.ID, Settle{}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestActionsRejectedAfterSettlement(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	g := sess.game
	g.Hands[0].Cards = cardsOf(Ten, Nine)
	g.DealerCards = cardsOf(Ten, Eight)
	g.State = StateFinished
	if _, err := sess.Apply(g.ID, Settle{}); err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	if _, err := sess.Apply(g.ID, Hit{HandID: g.Hands[0].ID}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction after settlement, got %v", err)
	}
	// A new round may now begin on the same shoe.
	if _, err := sess.StartGame("p1", []int{10}, nil); err != nil {
		t.Fatalf("the table should accept a new round: %v", err)
	}
}

func TestApplyUnknownGame(t *testing.T) {
	ledger := newFakeLedger("p1", 1000)
	sess := startGame(t, ledger, []int{10}, nil)
	if _, err := sess.Apply("other-game", Advance{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
