package store

import (
	"github.com/cardroom/blackjack-be/internal/db"
	"github.com/cardroom/blackjack-be/internal/game"
)

// DatabaseStore backs the Store interface with Postgres.
type DatabaseStore struct {
	db *db.Database
}

// NewDatabaseStore wraps a database connection as a Store.
func NewDatabaseStore(database *db.Database) *DatabaseStore {
	return &DatabaseStore{db: database}
}

func (s *DatabaseStore) SaveGame(g *game.Game) error {
	return s.db.SaveGame(g)
}

func (s *DatabaseStore) SaveHand(h *game.Hand) error {
	return s.db.SaveHand(h)
}

func (s *DatabaseStore) SaveShoe(tableID string, shoe *game.Shoe) error {
	return s.db.SaveShoe(tableID, shoe)
}

func (s *DatabaseStore) LoadGame(id string) (*game.Game, error) {
	return s.db.GetGame(id)
}

func (s *DatabaseStore) LoadHand(id string) (*game.Hand, error) {
	return s.db.GetHand(id)
}

func (s *DatabaseStore) LoadShoe(tableID string) (*game.Shoe, error) {
	return s.db.GetShoe(tableID)
}

func (s *DatabaseStore) GamesForTable(tableID string) ([]*game.Game, error) {
	return s.db.GetTableGames(tableID)
}

func (s *DatabaseStore) HandsForGame(gameID string) ([]*game.Hand, error) {
	return s.db.GetGameHands(gameID)
}
