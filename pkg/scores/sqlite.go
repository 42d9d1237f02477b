package scores

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/tblock/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scores (
	id         TEXT PRIMARY KEY,
	player     TEXT NOT NULL,
	score      INTEGER NOT NULL,
	lines      INTEGER NOT NULL,
	pieces     INTEGER NOT NULL,
	seed       INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS scores_rank ON scores (score DESC, created_at ASC);
`

// SQLiteStore keeps the leaderboard in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sqlite path cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "create sqlite dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open sqlite db")
	}
	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;", sqliteSchema} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "init sqlite schema")
		}
	}
	return &SQLiteStore{db: db}, nil
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

func (s *SQLiteStore) Add(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, player, score, lines, pieces, seed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Player, e.Score, e.Lines, e.Pieces, int64(e.Seed), toMillis(e.CreatedAt),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert score")
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, lines, pieces, seed, created_at FROM scores
		 ORDER BY score DESC, created_at ASC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query scores")
	}
	defer rows.Close()

	var es []Entry
	for rows.Next() {
		var (
			e       Entry
			seed    int64
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.Lines, &e.Pieces, &seed, &created); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan score")
		}
		e.Seed = uint64(seed)
		e.CreatedAt = fromMillis(created)
		es = append(es, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate scores")
	}
	return es, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores`); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "clear scores")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
