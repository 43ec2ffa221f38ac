package store

import "github.com/cardroom/blackjack-be/internal/game"

// Store is everything the server needs from storage: the engine's Repository
// plus table-level queries the API serves directly.
type Store interface {
	game.Repository

	// GamesForTable returns the games played at a table, newest first.
	GamesForTable(tableID string) ([]*game.Game, error)

	// HandsForGame returns a game's settled hand records.
	HandsForGame(gameID string) ([]*game.Hand, error)
}
