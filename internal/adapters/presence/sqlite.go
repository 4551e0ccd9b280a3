package presence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkeye/Interview/internal/domain"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a self-contained user store for single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	is_online INTEGER NOT NULL DEFAULT 0,
	is_available_for_mock_interview INTEGER NOT NULL DEFAULT 0
)`

func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// One connection: sqlite serializes writers anyway and :memory:
	// databases are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	log.Info().Str("module", "adapters.presence").Str("dsn", dsn).Msg("sqlite store ready")
	return &SQLiteStore{db: db}, nil
}

const sqliteUpsertPresence = `
INSERT INTO users (id, is_online, is_available_for_mock_interview)
VALUES (?1, ?2, COALESCE(?3, 0))
ON CONFLICT(id) DO UPDATE SET
	is_online = excluded.is_online,
	is_available_for_mock_interview = COALESCE(?3, users.is_available_for_mock_interview)`

func (s *SQLiteStore) UpdatePresence(ctx context.Context, u domain.PresenceUpdate) error {
	var available sql.NullBool
	if u.Available != nil {
		available = sql.NullBool{Bool: *u.Available, Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, sqliteUpsertPresence, string(u.UserID), u.Online, available); err != nil {
		return fmt.Errorf("update presence %s: %w", u.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) SetAvailable(ctx context.Context, id domain.UserID, available bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, is_available_for_mock_interview) VALUES (?1, ?2)
		 ON CONFLICT(id) DO UPDATE SET is_available_for_mock_interview = excluded.is_available_for_mock_interview`,
		string(id), available)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id domain.UserID) (domain.Presence, error) {
	var p domain.Presence
	err := s.db.QueryRowContext(ctx,
		`SELECT is_online, is_available_for_mock_interview FROM users WHERE id = ?1`, string(id),
	).Scan(&p.IsOnline, &p.IsAvailableForMockInterview)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("get presence %s: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("get presence %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
