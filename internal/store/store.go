// Package store is the durable local state layer: a SQLite-backed map of
// string keys to JSON blobs, read and written wholesale. The offline queue,
// unlocked achievements, cached cards, chat transcripts and settings all
// live here.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mfreitas/studypilot/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Well-known state keys.
const (
	KeyOfflineQueue    = "offline_queue"
	KeyAchievements    = "unlocked_achievements"
	KeyCachedCards     = "cached_flashcards"
	KeyStudyReminder   = "study_reminder"
	KeySettings        = "app_settings"
	conversationKeyFmt = "conversation_%s"
)

// ConversationKey returns the transcript key for one agent.
func ConversationKey(agentID string) string {
	return fmt.Sprintf(conversationKeyFmt, agentID)
}

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store wraps the SQLite handle behind blob get/put/delete operations.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens (creating if necessary) the local state database at path and
// applies migrations.
func Open(path string) (*Store, error) {
	log := logger.Default().WithPrefix("store")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening local state database: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	db.SetMaxOpenConns(1) // single writer

	s := &Store{db: db, log: log}
	if err := s.applyMigrations(context.Background()); err != nil {
		log.Error("failed to apply migrations: %v", err)
		db.Close()
		return nil, err
	}

	log.Info("local state database ready")
	return s, nil
}

// OpenInMemory opens a throwaway in-memory store, used by tests.
func OpenInMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)

	for _, name := range entries {
		var applied int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, name).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		s.log.Debug("applying migration %s", name)
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, name); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the raw blob stored under key. The second return value is
// false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := sqlBuilder.
		Select("value").
		From("local_state").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		s.log.Error("failed to read key %s: %v", key, err)
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous blob.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := sqlBuilder.
		Insert("local_state").
		Columns("key", "value", "updated_at").
		Values(key, string(value), squirrel.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("failed to write key %s: %v", key, err)
		return err
	}
	s.log.Debug("wrote key %s (%d bytes)", key, len(value))
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	query, args, err := sqlBuilder.
		Delete("local_state").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

// GetJSON unmarshals the blob under key into dst. Returns false when the key
// is absent, in which case dst is left untouched.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Error("corrupt blob under key %s: %v", key, err)
		return false, err
	}
	return true, nil
}

// PutJSON marshals v and stores it under key.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, raw)
}

// Keys returns all stored keys, for diagnostics.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	query, _, err := sqlBuilder.Select("key").From("local_state").OrderBy("key").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
