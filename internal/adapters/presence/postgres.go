package presence

import (
	"context"
	"fmt"

	"github.com/dkeye/Interview/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PostgresStore updates the flags on the application's users table.
// It never creates users: the user service owns those rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Str("module", "adapters.presence").Msg("connected to postgres")
	return &PostgresStore{pool: pool}, nil
}

const pgUpdatePresence = `
	UPDATE users
	SET is_online = $2,
	    is_available_for_mock_interview = COALESCE($3, is_available_for_mock_interview)
	WHERE id = $1`

func (s *PostgresStore) UpdatePresence(ctx context.Context, u domain.PresenceUpdate) error {
	tag, err := s.pool.Exec(ctx, pgUpdatePresence, string(u.UserID), u.Online, u.Available)
	if err != nil {
		return fmt.Errorf("update presence %s: %w", u.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update presence %s: %w", u.UserID, ErrUserNotFound)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.UserID) (domain.Presence, error) {
	var p domain.Presence
	err := s.pool.QueryRow(ctx,
		`SELECT is_online, is_available_for_mock_interview FROM users WHERE id = $1`, string(id),
	).Scan(&p.IsOnline, &p.IsAvailableForMockInterview)
	if err != nil {
		return p, fmt.Errorf("get presence %s: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
