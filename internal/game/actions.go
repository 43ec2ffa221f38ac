package game

// Action is the closed set of moves a caller can make against an open game.
// Session.Apply matches on the concrete type, so an unhandled action is a
// compile-visible gap in its switch rather than a silently ignored string.
type Action interface {
	isAction()
}

// Hit deals one more card to a hand.
type Hit struct {
	HandID string
}

// Split divides a two-card pair into two hands, each taking a fresh card.
type Split struct {
	HandID string
}

// Double doubles the bet on a two-card hand in exchange for exactly one more
// card.
type Double struct {
	HandID string
}

// Surrender forfeits half the bet and retires the hand.
type Surrender struct {
	HandID string
}

// Insure buys insurance on a hand against a dealer blackjack.
type Insure struct {
	HandID string
}

// Advance moves the cursor to the next hand, or to the dealer when none
// remain.
type Advance struct{}

// CompleteDealer plays out the dealer's hand.
type CompleteDealer struct{}

// Settle scores every hand against the dealer and pays out.
type Settle struct{}

func (Hit) isAction()            {}
func (Split) isAction()          {}
func (Double) isAction()         {}
func (Surrender) isAction()      {}
func (Insure) isAction()         {}
func (Advance) isAction()        {}
func (CompleteDealer) isAction() {}
func (Settle) isAction()         {}
