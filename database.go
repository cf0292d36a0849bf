package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const (
	historyLimit      = 10
	maxLeaderboardLen = 50
)

// DB wraps the SQLite database connection and implements StatStore
type DB struct {
	conn    *sql.DB
	pinCost int
}

var _ StatStore = (*DB)(nil)

// PlayerRow represents a player record in the database
type PlayerRow struct {
	Pseudo     string
	PinHash    string
	BestScore  int
	TotalGames int
	TotalKills int
	CreatedAt  time.Time
}

func (p *PlayerRow) Profile() *Profile {
	return &Profile{
		Pseudo:     p.Pseudo,
		BestScore:  p.BestScore,
		TotalGames: p.TotalGames,
		TotalKills: p.TotalKills,
	}
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, pinCost: bcrypt.DefaultCost}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// SetPinCost overrides the bcrypt cost used for new accounts
func (db *DB) SetPinCost(cost int) {
	db.pinCost = cost
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		pseudo TEXT PRIMARY KEY,
		pin_hash TEXT NOT NULL,
		best_score INTEGER NOT NULL DEFAULT 0,
		total_games INTEGER NOT NULL DEFAULT 0,
		total_kills INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pseudo TEXT NOT NULL REFERENCES players(pseudo),
		kills INTEGER NOT NULL,
		wave INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pseudo TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS achievements (
		pseudo TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		unlocked_at INTEGER NOT NULL,
		PRIMARY KEY (pseudo, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		pseudo TEXT,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_pseudo ON games(pseudo, id);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type, created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("db: migration error: %v", err)
	}
	return err
}

// GetPlayer returns a player by pseudo, or nil if there is none
func (db *DB) GetPlayer(ctx context.Context, pseudo string) (*PlayerRow, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT pseudo, pin_hash, best_score, total_games, total_kills, created_at FROM players WHERE pseudo = ?",
		pseudo,
	)
	p := &PlayerRow{}
	var created int64
	err := row.Scan(&p.Pseudo, &p.PinHash, &p.BestScore, &p.TotalGames, &p.TotalKills, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(created, 0)
	return p, nil
}

// AccountExists checks if a pseudo is taken
func (db *DB) AccountExists(ctx context.Context, pseudo string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM players WHERE pseudo = ?", pseudo).Scan(&count)
	return count > 0, err
}

// CreateAccount stores a new player with a hashed PIN. It returns false if
// the pseudo is already taken.
func (db *DB) CreateAccount(ctx context.Context, pseudo, pin string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), db.pinCost)
	if err != nil {
		return false, err
	}
	res, err := db.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO players (pseudo, pin_hash, created_at) VALUES (?, ?, ?)",
		pseudo, string(hash), time.Now().Unix(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Login checks a PIN against the stored hash
func (db *DB) Login(ctx context.Context, pseudo, pin string) (*Profile, error) {
	p, err := db.GetPlayer(ctx, pseudo)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PinHash), []byte(pin)); err != nil {
		return nil, ErrBadCredentials
	}
	return p.Profile(), nil
}

// RecordMatch adds a finished run: one more game, cumulative kills, best
// score raised if beaten, and a history row.
func (db *DB) RecordMatch(ctx context.Context, pseudo string, kills, wave int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE players SET
			total_games = total_games + 1,
			total_kills = total_kills + ?,
			best_score = MAX(best_score, ?)
		WHERE pseudo = ?`,
		kills, kills, pseudo,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotAuthenticated
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO games (pseudo, kills, wave, created_at) VALUES (?, ?, ?, ?)",
		pseudo, kills, wave, time.Now().UnixMilli(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// FetchStats returns totals and the ten most recent runs, or nil for an unknown pseudo
func (db *DB) FetchStats(ctx context.Context, pseudo string) (*PlayerStats, error) {
	p, err := db.GetPlayer(ctx, pseudo)
	if err != nil || p == nil {
		return nil, err
	}
	history, err := db.GetMatchHistory(ctx, pseudo, historyLimit)
	if err != nil {
		return nil, err
	}
	return &PlayerStats{
		BestScore:  p.BestScore,
		TotalGames: p.TotalGames,
		TotalKills: p.TotalKills,
		History:    history,
	}, nil
}

// GetMatchHistory returns recent runs for a player, newest first
func (db *DB) GetMatchHistory(ctx context.Context, pseudo string, limit int) ([]MatchRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT kills, wave, created_at FROM games
		WHERE pseudo = ?
		ORDER BY id DESC
		LIMIT ?`,
		pseudo, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var r MatchRecord
		var at int64
		if err := rows.Scan(&r.Kills, &r.Wave, &at); err != nil {
			return nil, err
		}
		r.Date = time.UnixMilli(at)
		result = append(result, r)
	}
	return result, rows.Err()
}

// FetchLeaderboard returns top players by the given key. Players with a zero
// value are left out.
func (db *DB) FetchLeaderboard(ctx context.Context, sortKey string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		SortBestScore:  "best_score",
		SortTotalKills: "total_kills",
	}
	col, ok := validCols[sortKey]
	if !ok {
		col = "best_score"
	}
	if limit <= 0 || limit > maxLeaderboardLen {
		limit = maxLeaderboardLen
	}

	query := `SELECT pseudo, ` + col + ` FROM players
		WHERE ` + col + ` > 0
		ORDER BY ` + col + ` DESC, pseudo ASC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Pseudo, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// InsertChat appends one chat line
func (db *DB) InsertChat(ctx context.Context, m ChatMessage) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO chat (pseudo, message, created_at) VALUES (?, ?, ?)",
		m.Author, m.Text, m.Time.UnixMilli(),
	)
	return err
}

// RecentChat returns the latest limit chat lines, oldest first
func (db *DB) RecentChat(ctx context.Context, limit int) ([]ChatMessage, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT pseudo, message, created_at FROM (
			SELECT id, pseudo, message, created_at FROM chat ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ChatMessage, 0, limit)
	for rows.Next() {
		var m ChatMessage
		var at int64
		if err := rows.Scan(&m.Author, &m.Text, &at); err != nil {
			return nil, err
		}
		m.Time = time.UnixMilli(at)
		result = append(result, m)
	}
	return result, rows.Err()
}

// GetAchievements returns the IDs a player has unlocked
func (db *DB) GetAchievements(ctx context.Context, pseudo string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT achievement_id FROM achievements WHERE pseudo = ? ORDER BY unlocked_at, achievement_id", pseudo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockAchievement records an achievement; false if it was already held
func (db *DB) UnlockAchievement(ctx context.Context, pseudo, id string) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO achievements (pseudo, achievement_id, unlocked_at) VALUES (?, ?, ?)",
		pseudo, id, time.Now().Unix(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// GetSetting returns a stored setting, or "" if unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("db: read setting %s: %v", key, err)
	}
	return v
}

// SetSetting stores or replaces a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
