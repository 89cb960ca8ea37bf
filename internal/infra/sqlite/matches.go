package sqlite

import (
	"fmt"
	"time"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements, one per entry.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			winner     TEXT NOT NULL,
			score_a    REAL NOT NULL DEFAULT 0,
			score_b    REAL NOT NULL DEFAULT 0,
			threshold  REAL NOT NULL DEFAULT 0,
			players_a  INTEGER NOT NULL DEFAULT 0,
			players_b  INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			ended_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_ended ON matches(ended_at)`,
	}
}

// DefaultHistoryLimit caps ListMatches when no limit is given.
const DefaultHistoryLimit = 20

// ─── Match Operations ───────────────────────────────────────────────────────

// InsertMatch stores a finished match and returns its id.
func (db *DB) InsertMatch(m domain.MatchRecord) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO matches (winner, score_a, score_b, threshold, players_a, players_b, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, string(m.Winner), m.Scores.TeamA, m.Scores.TeamB, m.Threshold, m.PlayersA, m.PlayersB,
		m.StartedAt.UTC().Format(time.RFC3339Nano), m.EndedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return res.LastInsertId()
}

// ListMatches returns the most recent matches, newest first.
func (db *DB) ListMatches(limit int) ([]domain.MatchRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := db.db.Query(`
		SELECT id, winner, score_a, score_b, threshold, players_a, players_b, started_at, ended_at
		FROM matches ORDER BY ended_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MatchRecord{}
	for rows.Next() {
		var (
			m                  domain.MatchRecord
			winner             string
			startedAt, endedAt string
		)
		if err := rows.Scan(&m.ID, &winner, &m.Scores.TeamA, &m.Scores.TeamB, &m.Threshold,
			&m.PlayersA, &m.PlayersB, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		m.Winner = domain.Team(winner)
		m.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		m.EndedAt, _ = time.Parse(time.RFC3339Nano, endedAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// TeamWins returns the number of archived wins per team.
func (db *DB) TeamWins() (map[domain.Team]int, error) {
	wins := map[domain.Team]int{}
	for _, t := range domain.Teams {
		wins[t] = 0
	}
	rows, err := db.db.Query(`SELECT winner, COUNT(*) FROM matches GROUP BY winner`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			winner string
			n      int
		)
		if err := rows.Scan(&winner, &n); err != nil {
			return nil, err
		}
		wins[domain.Team(winner)] = n
	}
	return wins, rows.Err()
}
