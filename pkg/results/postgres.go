package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS duel_results (
	result_id   UUID PRIMARY KEY,
	room        TEXT NOT NULL,
	white_id    TEXT NOT NULL,
	white_name  TEXT NOT NULL,
	black_id    TEXT NOT NULL,
	black_name  TEXT NOT NULL,
	winner_id   TEXT NOT NULL,
	moves       JSONB NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	ended_at    TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps results in a duel_results table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects, pings and creates the table when missing
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// SaveResult upserts the result by id
func (s *PostgresStore) SaveResult(ctx context.Context, r Result) error {
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}

	q := `INSERT INTO duel_results (
		result_id, room, white_id, white_name, black_id, black_name,
		winner_id, moves, started_at, ended_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (result_id) DO UPDATE SET
		winner_id=EXCLUDED.winner_id,
		moves=EXCLUDED.moves,
		ended_at=EXCLUDED.ended_at`

	_, err = s.db.ExecContext(ctx, q,
		r.ID.String(), r.Room,
		r.White.ID, r.White.Username,
		r.Black.ID, r.Black.Username,
		r.WinnerID, string(moves),
		r.StartedAt, r.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	return nil
}

// Recent returns up to limit results, newest first
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Result, error) {
	q := `SELECT result_id, room, white_id, white_name, black_id, black_name,
		winner_id, moves, started_at, ended_at
	FROM duel_results ORDER BY ended_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, q, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r     Result
			id    string
			moves []byte
		)
		err := rows.Scan(&id, &r.Room,
			&r.White.ID, &r.White.Username,
			&r.Black.ID, &r.Black.Username,
			&r.WinnerID, &moves, &r.StartedAt, &r.EndedAt)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if err := r.ID.UnmarshalText([]byte(id)); err != nil {
			return nil, fmt.Errorf("parse result id: %w", err)
		}
		if err := json.Unmarshal(moves, &r.Moves); err != nil {
			return nil, fmt.Errorf("decode moves: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
