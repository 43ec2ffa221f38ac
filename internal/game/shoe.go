package game

// Shoe holds every card in rotation at a table, split across the live stack,
// the cards currently on the felt, and the discard pile. The invariant
// |live| + |inPlay| + |discards| == Packs*52 holds between operations.
type Shoe struct {
	LiveCards   []Card `json:"liveCards"`
	InPlay      []Card `json:"inPlay"`
	Discards    []Card `json:"discards"`
	Packs       int    `json:"packs"`
	CutPosition int    `json:"cutPosition"`

	rng RNG
}

// NewShoe builds a shuffled shoe of packs*52 cards and places the cut card.
func NewShoe(packs int, rng RNG) *Shoe {
	cards := make([]Card, 0, packs*52)
	for i := 0; i < packs; i++ {
		cards = append(cards, NewPack()...)
	}
	s := &Shoe{
		LiveCards: cards,
		Packs:     packs,
		rng:       rng,
	}
	s.shuffleLive()
	s.cut()
	return s
}

// SetRNG re-attaches a randomness source, e.g. after loading a persisted
// shoe snapshot.
func (s *Shoe) SetRNG(rng RNG) {
	s.rng = rng
}

// shuffleLive runs a Durstenfeld shuffle over the live stack.
func (s *Shoe) shuffleLive() {
	for i := len(s.LiveCards) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		s.LiveCards[i], s.LiveCards[j] = s.LiveCards[j], s.LiveCards[i]
	}
}

// cut places the marker between 20 and 10%+20 cards from the bottom of the
// shoe. CutPosition is an absolute card count from the bottom of a fresh
// shoe; a round may not begin once the live stack has been drawn past it.
func (s *Shoe) cut() {
	size := s.Packs * 52
	s.CutPosition = size - (s.rng.Intn(size/10) + 20)
}

// NeedsReshuffle reports whether the live stack has been drawn past the cut
// card, meaning a reshuffle is due before the next round is dealt.
func (s *Shoe) NeedsReshuffle() bool {
	return s.Packs*52-s.CutPosition > len(s.LiveCards)
}

// Reshuffle folds the in-play set and the discards back into the live stack,
// shuffles everything, and cuts again. The session calls this between
// rounds, never mid-hand, so a round's deck is stable once dealing starts.
func (s *Shoe) Reshuffle() {
	s.LiveCards = append(s.LiveCards, s.InPlay...)
	s.LiveCards = append(s.LiveCards, s.Discards...)
	s.InPlay = nil
	s.Discards = nil
	s.shuffleLive()
	s.cut()
}

// Draw removes n cards from the front of the live stack and moves them into
// the in-play set.
func (s *Shoe) Draw(n int) ([]Card, error) {
	if n > len(s.LiveCards) {
		return nil, ErrShoeExhausted
	}
	cards := make([]Card, n)
	copy(cards, s.LiveCards[:n])
	s.LiveCards = s.LiveCards[n:]
	s.InPlay = append(s.InPlay, cards...)
	return cards, nil
}

// DrawOne removes a single card from the front of the live stack.
func (s *Shoe) DrawOne() (Card, error) {
	cards, err := s.Draw(1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

// DiscardInPlay moves everything on the felt to the discard pile. Called at
// settlement.
func (s *Shoe) DiscardInPlay() {
	s.Discards = append(s.Discards, s.InPlay...)
	s.InPlay = nil
}
