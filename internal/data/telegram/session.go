package telegram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
	_ "modernc.org/sqlite"
)

// SessionStorage keeps the MTProto session blob in a single-row sqlite
// database so an authorized login survives restarts. It implements gotd's
// session.Storage.
type SessionStorage struct {
	db *sql.DB
}

// NewSessionStorage opens (and if needed creates) the session database.
func NewSessionStorage(dbPath string) (*SessionStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id   INTEGER PRIMARY KEY CHECK (id = 1),
			data BLOB NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SessionStorage{db: db}, nil
}

// LoadSession returns the stored session blob, or session.ErrNotFound when
// none has been stored yet.
func (s *SessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return data, nil
}

// StoreSession overwrites the stored session blob.
func (s *SessionStorage) StoreSession(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data
	`, data)
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SessionStorage) Close() error {
	return s.db.Close()
}
