package game

// RNG is the source of randomness for shuffling and cut-card placement.
// Injecting it keeps shuffles deterministic under test.
type RNG interface {
	// Intn returns a uniformly random int in [0, n).
	Intn(n int) int
}

// Ledger applies chip deltas to a player's account. Debit must fail with
// ErrInsufficientFunds when the balance cannot cover the amount; it must not
// partially apply. The engine orders its calls so a debit is the last
// fallible step of a validated action, or is refunded with a Credit when a
// later step fails.
type Ledger interface {
	Debit(playerID string, amount int) error
	Credit(playerID string, amount int) error
}

// Repository is durable storage for games, hands and shoes. The engine only
// writes snapshots; it never reads back mid-round, so implementations are
// free to store whatever shape they like under the given ids.
type Repository interface {
	SaveGame(g *Game) error
	SaveHand(h *Hand) error
	SaveShoe(tableID string, s *Shoe) error

	LoadGame(id string) (*Game, error)
	LoadHand(id string) (*Hand, error)
	LoadShoe(tableID string) (*Shoe, error)
}
