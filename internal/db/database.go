package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardroom/blackjack-be/internal/game"
	_ "github.com/lib/pq"
)

// Database is the Postgres persistence layer. It stores game and shoe
// snapshots as JSONB, settled hands as rows, and doubles as the chip ledger
// through the players table.
type Database struct {
	db *sql.DB
}

// NewDatabase opens a connection using the given DSN and prepares the schema.
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			chips INTEGER NOT NULL DEFAULT 1000,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create players table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			table_id TEXT NOT NULL,
			state TEXT NOT NULL,
			snapshot JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create games table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS hands (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			seat INTEGER NOT NULL,
			bet INTEGER NOT NULL,
			result TEXT,
			payout INTEGER NOT NULL DEFAULT 0,
			snapshot JSONB,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create hands table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS shoes (
			table_id TEXT PRIMARY KEY,
			snapshot JSONB,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create shoes table: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// CreatePlayer inserts a player with a starting chip balance.
func (d *Database) CreatePlayer(playerID, name string, chips int) error {
	_, err := d.db.Exec(
		"INSERT INTO players (id, name, chips) VALUES ($1, $2, $3)",
		playerID, name, chips,
	)
	return err
}

// GetPlayer returns a player's name and chip balance.
func (d *Database) GetPlayer(playerID string) (name string, chips int, err error) {
	err = d.db.QueryRow("SELECT name, chips FROM players WHERE id = $1", playerID).Scan(&name, &chips)
	if err == sql.ErrNoRows {
		return "", 0, fmt.Errorf("player %s: %w", playerID, game.ErrNotFound)
	}
	return name, chips, err
}

// Debit removes chips from a player's balance. The guard in the WHERE clause
// makes the check-and-subtract atomic.
func (d *Database) Debit(playerID string, amount int) error {
	res, err := d.db.Exec(
		"UPDATE players SET chips = chips - $1 WHERE id = $2 AND chips >= $1",
		amount, playerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, _, err := d.GetPlayer(playerID); err != nil {
			return err
		}
		return fmt.Errorf("player %s cannot cover %d chips: %w", playerID, amount, game.ErrInsufficientFunds)
	}
	return nil
}

// Credit adds chips to a player's balance.
func (d *Database) Credit(playerID string, amount int) error {
	res, err := d.db.Exec(
		"UPDATE players SET chips = chips + $1 WHERE id = $2",
		amount, playerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("player %s: %w", playerID, game.ErrNotFound)
	}
	return nil
}

// SaveGame upserts a game snapshot.
func (d *Database) SaveGame(g *game.Game) error {
	snapshot, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`
		INSERT INTO games (id, table_id, state, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET state = $3, snapshot = $4, updated_at = $6
	`, g.ID, g.TableID, string(g.State), snapshot, g.CreatedAt, time.Now())
	return err
}

// GetGame loads a game snapshot by id.
func (d *Database) GetGame(id string) (*game.Game, error) {
	var snapshot []byte
	err := d.db.QueryRow("SELECT snapshot FROM games WHERE id = $1", id).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var g game.Game
	if err := json.Unmarshal(snapshot, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SaveHand upserts a hand record.
func (d *Database) SaveHand(h *game.Hand) error {
	snapshot, err := json.Marshal(h)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`
		INSERT INTO hands (id, game_id, player_id, seat, bet, result, payout, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET bet = $5, result = $6, payout = $7, snapshot = $8, updated_at = $9
	`, h.ID, h.GameID, h.PlayerID, h.Seat, h.Bet, string(h.Result), h.Payout, snapshot, time.Now())
	return err
}

// GetHand loads a hand by id.
func (d *Database) GetHand(id string) (*game.Hand, error) {
	var snapshot []byte
	err := d.db.QueryRow("SELECT snapshot FROM hands WHERE id = $1", id).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hand %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var h game.Hand
	if err := json.Unmarshal(snapshot, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// SaveShoe upserts a table's shoe snapshot.
func (d *Database) SaveShoe(tableID string, s *game.Shoe) error {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`
		INSERT INTO shoes (table_id, snapshot, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (table_id) DO UPDATE
		SET snapshot = $2, updated_at = $3
	`, tableID, snapshot, time.Now())
	return err
}

// GetShoe loads a table's shoe. The caller must re-attach an RNG before use.
func (d *Database) GetShoe(tableID string) (*game.Shoe, error) {
	var snapshot []byte
	err := d.db.QueryRow("SELECT snapshot FROM shoes WHERE table_id = $1", tableID).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("shoe for table %s: %w", tableID, game.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var s game.Shoe
	if err := json.Unmarshal(snapshot, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetTableGames returns a table's games, newest first.
func (d *Database) GetTableGames(tableID string) ([]*game.Game, error) {
	rows, err := d.db.Query(
		"SELECT snapshot FROM games WHERE table_id = $1 ORDER BY created_at DESC",
		tableID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*game.Game
	for rows.Next() {
		var snapshot []byte
		if err := rows.Scan(&snapshot); err != nil {
			return nil, err
		}
		var g game.Game
		if err := json.Unmarshal(snapshot, &g); err != nil {
			return nil, err
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

// GetGameHands returns a game's hands in seat order.
func (d *Database) GetGameHands(gameID string) ([]*game.Hand, error) {
	rows, err := d.db.Query(
		"SELECT snapshot FROM hands WHERE game_id = $1 ORDER BY seat",
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hands []*game.Hand
	for rows.Next() {
		var snapshot []byte
		if err := rows.Scan(&snapshot); err != nil {
			return nil, err
		}
		var h game.Hand
		if err := json.Unmarshal(snapshot, &h); err != nil {
			return nil, err
		}
		hands = append(hands, &h)
	}
	return hands, rows.Err()
}
