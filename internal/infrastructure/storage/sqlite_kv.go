package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// SQLiteKVStore SQLite asosidagi kalit-qiymat store.
// Bitta kv jadvali brauzer localStorage o'rnini bosadi.
type SQLiteKVStore struct {
	db *sql.DB
}

var _ repository.KVStore = (*SQLiteKVStore)(nil)

// NewSQLiteKVStore yangi SQLite store ochish
func NewSQLiteKVStore(dbPath string) (*SQLiteKVStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}

	if err := createKVSchema(db); err != nil {
		return nil, err
	}

	return &SQLiteKVStore{db: db}, nil
}

func createKVSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return nil
}

// Get kalit bo'yicha qiymatni olish
func (s *SQLiteKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set kalit bo'yicha qiymatni yozish
func (s *SQLiteKVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

// Close baza ulanishini yopish
func (s *SQLiteKVStore) Close() error {
	return s.db.Close()
}
