package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS relay_frames (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id TEXT NOT NULL,
	frame   BLOB NOT NULL,
	created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS relay_frames_room ON relay_frames(room_id, id);
`

type sqliteArchive struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite archive at dsn.
func OpenSQLite(dsn string) (Archive, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Info().Str("dsn", dsn).Msg("relay archive opened")
	return &sqliteArchive{db: db}, nil
}

func (s *sqliteArchive) Append(ctx context.Context, roomID string, frame []byte) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO relay_frames (room_id, frame) VALUES (?, ?)`, roomID, frame); err != nil {
		return fmt.Errorf("append frame: %w", err)
	}
	return nil
}

func (s *sqliteArchive) History(ctx context.Context, roomID string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT frame FROM relay_frames WHERE room_id = ? ORDER BY id`, roomID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	frames := [][]byte{}
	for rows.Next() {
		var frame []byte
		if err := rows.Scan(&frame); err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

func (s *sqliteArchive) Close() error {
	return s.db.Close()
}
