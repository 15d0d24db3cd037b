package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLite is the durable backend: a single kv table in the app-owned
// macrod.db. It satisfies the Port contract, so read errors degrade to a
// cache miss and write errors are logged and swallowed.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates a new SQLite connection with WAL mode and recommended pragmas.
func Open(path string, logger *zap.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Verify connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLite{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the value stored under key. Any error reports a miss.
func (s *SQLite) Load(key string) ([]byte, bool) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("kv load failed, treating as empty", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, true
}

// Save upserts the value under key.
func (s *SQLite) Save(key string, value []byte) {
	now := time.Now().UnixMilli()
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		s.logger.Error("kv save failed", zap.String("key", key), zap.Error(err))
	}
}
