package game

import (
	"fmt"
	"sync"
)

// Session drives one table: it owns the table's shoe and its single open
// game, and serializes every action behind a mutex. Actions against
// different tables never contend; two actions against the same table can
// never observe a half-mutated shoe or hand list.
type Session struct {
	mu      sync.Mutex
	tableID string
	shoe    *Shoe
	game    *Game
	ledger  Ledger
	repo    Repository
	rng     RNG
}

// NewSession creates a session for a table. The shoe is built on the first
// StartGame from the round's rules and then survives across rounds.
func NewSession(tableID string, ledger Ledger, repo Repository, rng RNG) *Session {
	return &Session{
		tableID: tableID,
		ledger:  ledger,
		repo:    repo,
		rng:     rng,
	}
}

// TableID returns the table this session serializes.
func (s *Session) TableID() string {
	return s.tableID
}

// Game returns the session's current game, or nil before the first round.
func (s *Session) Game() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// StartGame debits the player for the sum of bets, deals two cards per seat
// plus the dealer, and opens the round. The shoe is reshuffled first if the
// previous round drew past the cut card.
func (s *Session) StartGame(playerID string, bets []int, rules *RuleSet) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != nil && s.game.State != StateSettled {
		return nil, fmt.Errorf("table %s already has an open game: %w", s.tableID, ErrInvalidAction)
	}

	r := DefaultRules()
	if rules != nil {
		r = *rules
	}
	if err := validateBets(bets, r); err != nil {
		return nil, err
	}

	if s.shoe == nil {
		s.shoe = NewShoe(r.Packs, s.rng)
	}
	if s.shoe.NeedsReshuffle() {
		s.shoe.Reshuffle()
	}

	total := 0
	for _, b := range bets {
		total += b
	}
	if err := s.ledger.Debit(playerID, total); err != nil {
		return nil, err
	}

	// Two cards per bet plus two for the dealer.
	cards, err := s.shoe.Draw(2 * (len(bets) + 1))
	if err != nil {
		s.ledger.Credit(playerID, total)
		return nil, err
	}

	g := newGame(s.tableID, r, len(bets))
	participants := len(bets) + 1

	// Deal round-robin the way a live dealer does: one card around the
	// table and to themselves, then a second pass. Participant i holds
	// cards[i] and cards[participants+i]; the dealer is last.
	for i, bet := range bets {
		first := cards[i]
		second := cards[participants+i]
		first.FaceUp = !r.DealPlayersCardsFaceDown
		second.FaceUp = !r.DealPlayersCardsFaceDown
		h := NewHand(playerID, i, bet, []Card{first, second})
		h.GameID = g.ID
		g.Hands = append(g.Hands, h)
	}
	up := cards[participants-1]
	hole := cards[2*participants-1]
	up.FaceUp = true
	hole.FaceUp = false
	g.DealerCards = []Card{up, hole}

	g.State = StateStarted
	s.game = g

	if err := s.persistAll(); err != nil {
		return nil, err
	}
	return g, nil
}

// Apply runs one action against the session's open game. Unknown game ids
// fail with ErrNotFound; actions illegal for the current state fail with
// ErrInvalidAction and leave the game untouched.
func (s *Session) Apply(gameID string, action Action) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil || s.game.ID != gameID {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}

	var err error
	switch a := action.(type) {
	case Hit:
		err = s.hit(a.HandID)
	case Split:
		err = s.split(a.HandID)
	case Double:
		err = s.double(a.HandID)
	case Surrender:
		err = s.surrender(a.HandID)
	case Insure:
		err = s.insure(a.HandID)
	case Advance:
		err = s.advance()
	case CompleteDealer:
		err = s.completeDealer()
	case Settle:
		err = s.settle()
	default:
		err = fmt.Errorf("unknown action %T: %w", action, ErrInvalidAction)
	}
	if err != nil {
		return nil, err
	}
	s.game.touch()
	return s.game, nil
}

func validateBets(bets []int, r RuleSet) error {
	if len(bets) == 0 {
		return fmt.Errorf("at least one bet is required: %w", ErrRuleViolation)
	}
	if len(bets) > r.Seats {
		return fmt.Errorf("%d bets exceed the table's %d seats: %w", len(bets), r.Seats, ErrRuleViolation)
	}
	for _, b := range bets {
		if b < r.MinBet || b > r.MaxBet {
			return fmt.Errorf("bet %d outside [%d, %d]: %w", b, r.MinBet, r.MaxBet, ErrRuleViolation)
		}
		if r.BetIncrement > 0 && b%r.BetIncrement != 0 {
			return fmt.Errorf("bet %d is not a multiple of %d: %w", b, r.BetIncrement, ErrRuleViolation)
		}
	}
	return nil
}

// currentHand resolves a hand id against the cursor: only the hand under the
// cursor may act, and only while it can still take cards.
func (s *Session) currentHand(handID string) (*Hand, error) {
	g := s.game
	if !g.open() {
		return nil, fmt.Errorf("game is %s: %w", g.State, ErrInvalidAction)
	}
	h, idx, err := g.handByID(handID)
	if err != nil {
		return nil, fmt.Errorf("hand %s: %w", handID, err)
	}
	if idx != g.CurrentHand {
		return nil, fmt.Errorf("hand %s is not the current hand: %w", handID, ErrInvalidAction)
	}
	if h.IsFinished() {
		return nil, fmt.Errorf("hand %s is finished: %w", handID, ErrInvalidAction)
	}
	return h, nil
}

func (s *Session) hit(handID string) error {
	h, err := s.currentHand(handID)
	if err != nil {
		return err
	}
	if s.game.Rules.CanOnlyHitOnceAfterAceSplit && h.splitFromAces() && len(h.Cards) >= 3 {
		return fmt.Errorf("split aces allow only one hit: %w", ErrRuleViolation)
	}

	card, err := s.shoe.DrawOne()
	if err != nil {
		return err
	}
	card.FaceUp = true
	h.Cards = append(h.Cards, card)
	s.game.State = StateHit
	return s.persistAll()
}

func (s *Session) split(handID string) error {
	h, err := s.currentHand(handID)
	if err != nil {
		return err
	}
	g := s.game
	if len(h.Cards) != 2 {
		return fmt.Errorf("only a two-card hand can be split: %w", ErrInvalidAction)
	}
	c0, c1 := h.Cards[0], h.Cards[1]
	pair := c0.Rank == c1.Rank || (g.Rules.AllowSplitsForAll10Cards && c0.IsTenValue() && c1.IsTenValue())
	if !pair {
		return fmt.Errorf("cards %s and %s are not splittable: %w", c0.Rank, c1.Rank, ErrRuleViolation)
	}
	if g.splitsAtSeat(h.Seat) >= g.Rules.NumberOfSplitsAllowed {
		return fmt.Errorf("seat %d reached the split limit of %d: %w", h.Seat, g.Rules.NumberOfSplitsAllowed, ErrRuleViolation)
	}

	// The new hand carries its own bet.
	if err := s.ledger.Debit(h.PlayerID, h.Bet); err != nil {
		return err
	}
	drawn, err := s.shoe.Draw(2)
	if err != nil {
		s.ledger.Credit(h.PlayerID, h.Bet)
		return err
	}

	fromTenOrAce := (c0.IsTenValue() && c1.IsTenValue()) || (c0.Rank == Ace && c1.Rank == Ace)
	faceUp := !g.Rules.DealPlayersCardsFaceDown
	drawn[0].FaceUp = faceUp
	drawn[1].FaceUp = faceUp

	// The original hand keeps its first card and becomes the first split
	// hand in place.
	h.Cards = []Card{c0, drawn[0]}
	h.IsSplit = true
	h.SplitFromTenOrAce = fromTenOrAce

	second := NewHand(h.PlayerID, h.Seat, h.Bet, []Card{c1, drawn[1]})
	second.GameID = g.ID
	second.IsSplit = true
	second.SplitFromTenOrAce = fromTenOrAce

	// Splice directly after the original so seat ordering is preserved.
	_, idx, _ := g.handByID(h.ID)
	g.Hands = append(g.Hands, nil)
	copy(g.Hands[idx+2:], g.Hands[idx+1:])
	g.Hands[idx+1] = second

	g.State = StateSplit
	return s.persistAll()
}

func (s *Session) double(handID string) error {
	h, err := s.currentHand(handID)
	if err != nil {
		return err
	}
	g := s.game
	if len(h.Cards) != 2 || h.IsDoubled {
		return fmt.Errorf("double down requires an un-acted two-card hand: %w", ErrInvalidAction)
	}
	if !g.Rules.canDoubleOn(Total(h.Cards)) {
		return fmt.Errorf("doubling on %d is not allowed: %w", Total(h.Cards), ErrRuleViolation)
	}
	if h.IsSplit && !g.Rules.AllowDoublingAfterSplit {
		return fmt.Errorf("doubling after a split is not allowed: %w", ErrRuleViolation)
	}

	if err := s.ledger.Debit(h.PlayerID, h.Bet); err != nil {
		return err
	}
	card, err := s.shoe.DrawOne()
	if err != nil {
		s.ledger.Credit(h.PlayerID, h.Bet)
		return err
	}
	card.FaceUp = true
	h.IsDoubled = true
	h.Cards = append(h.Cards, card)
	g.State = StateHit
	return s.persistAll()
}

func (s *Session) surrender(handID string) error {
	h, err := s.currentHand(handID)
	if err != nil {
		return err
	}
	g := s.game
	if !g.Rules.AllowEarlySurrender && !g.Rules.AllowLateSurrender {
		return fmt.Errorf("surrender is not offered at this table: %w", ErrRuleViolation)
	}
	if len(h.Cards) != 2 || h.IsSplit {
		return fmt.Errorf("only an un-acted original hand may surrender: %w", ErrInvalidAction)
	}
	h.Surrendered = true
	return s.persistAll()
}

func (s *Session) insure(handID string) error {
	h, err := s.currentHand(handID)
	if err != nil {
		return err
	}
	g := s.game
	if !g.Rules.InsuranceAvailable {
		return fmt.Errorf("insurance is not offered at this table: %w", ErrRuleViolation)
	}
	if len(g.DealerCards) == 0 || g.DealerCards[0].Rank != Ace {
		return fmt.Errorf("insurance requires a dealer ace showing: %w", ErrInvalidAction)
	}
	if len(h.Cards) != 2 || h.IsInsured {
		return fmt.Errorf("insurance requires an un-acted two-card hand: %w", ErrInvalidAction)
	}
	if err := s.ledger.Debit(h.PlayerID, h.Bet/2); err != nil {
		return err
	}
	h.IsInsured = true
	return s.persistAll()
}

func (s *Session) advance() error {
	g := s.game
	if !g.open() {
		return fmt.Errorf("game is %s: %w", g.State, ErrInvalidAction)
	}
	next := g.CurrentHand + 1
	if next < len(g.Hands) && g.Hands[next].Seat != g.Hands[g.CurrentHand].Seat {
		g.CurrentSeat++
	}
	if next >= len(g.Hands) {
		return s.completeDealer()
	}
	g.CurrentHand = next
	g.State = StateStood
	return s.persistAll()
}

// completeDealer plays out the dealer's hand: reveal the hole card, then
// draw until the stopping rule says stand. The loop is bounded by the shoe.
func (s *Session) completeDealer() error {
	g := s.game
	if !g.open() {
		return fmt.Errorf("game is %s: %w", g.State, ErrInvalidAction)
	}
	for i := range g.DealerCards {
		g.DealerCards[i].FaceUp = true
	}
	for !DealerShouldStop(g.DealerCards, g.Rules.DealerStandsOnSoft17) {
		card, err := s.shoe.DrawOne()
		if err != nil {
			return err
		}
		card.FaceUp = true
		g.DealerCards = append(g.DealerCards, card)
	}
	g.State = StateFinished
	return s.persistAll()
}

// settle scores every hand against the completed dealer hand, credits the
// payouts, and retires the round's cards to the discard pile.
func (s *Session) settle() error {
	g := s.game
	if g.State != StateFinished {
		return fmt.Errorf("cannot settle a game in state %s: %w", g.State, ErrInvalidAction)
	}

	dealer := EvaluateDealer(g.DealerCards)
	for _, h := range g.Hands {
		result, payout := SettleHand(h, dealer, g.Rules)
		if payout != 0 {
			if err := s.ledger.Credit(h.PlayerID, payout); err != nil {
				return fmt.Errorf("credit payout for hand %s: %w", h.ID, err)
			}
		}
		h.Result = result
		h.Payout = payout
	}

	s.shoe.DiscardInPlay()
	g.State = StateSettled
	return s.persistAll()
}

func (s *Session) persistAll() error {
	if s.repo == nil {
		return nil
	}
	if s.shoe != nil {
		if err := s.repo.SaveShoe(s.tableID, s.shoe); err != nil {
			return fmt.Errorf("save shoe: %w", err)
		}
	}
	if s.game != nil {
		if err := s.repo.SaveGame(s.game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}
		for _, h := range s.game.Hands {
			if err := s.repo.SaveHand(h); err != nil {
				return fmt.Errorf("save hand: %w", err)
			}
		}
	}
	return nil
}
