package game

import "errors"

var (
	// ErrInvalidAction means the action is illegal for the game's current
	// state, e.g. hitting a finished hand.
	ErrInvalidAction = errors.New("action is not legal in the current game state")

	// ErrInsufficientFunds means a bet, split, double or insurance purchase
	// exceeds the player's chip balance.
	ErrInsufficientFunds = errors.New("insufficient chips")

	// ErrShoeExhausted means the card supply cannot satisfy a draw even
	// after a reshuffle.
	ErrShoeExhausted = errors.New("shoe exhausted")

	// ErrRuleViolation means the configured rules forbid the action, e.g.
	// splitting past the split limit.
	ErrRuleViolation = errors.New("action violates the table rules")

	// ErrNotFound means an unknown game, hand or player id.
	ErrNotFound = errors.New("not found")
)
