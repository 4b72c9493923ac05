package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lox/twentyone/internal/game"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS twenty_one_users (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	purse    INT  NOT NULL DEFAULT 5,
	wins     INT  NOT NULL DEFAULT 0,
	losses   INT  NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_twenty_one_users_purse ON twenty_one_users(purse DESC);
`

// PostgresStore is the production Store backed by a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres, applies the schema, and returns a
// ready store.
func NewPostgresStore(ctx context.Context, databaseURL string, logger zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger.Info().Msg("connected to postgres ledger")
	return &PostgresStore{pool: pool, logger: logger.With().Str("component", "ledger").Logger()}, nil
}

func (s *PostgresStore) Authenticate(ctx context.Context, username, password string) (bool, error) {
	var hashed string
	err := s.pool.QueryRow(ctx,
		`SELECT password FROM twenty_one_users WHERE username = $1`,
		username).Scan(&hashed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *PostgresStore) Purse(ctx context.Context, username string) (int, error) {
	var purse int
	err := s.pool.QueryRow(ctx,
		`SELECT purse FROM twenty_one_users WHERE username = $1`,
		username).Scan(&purse)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	if err != nil {
		return 0, fmt.Errorf("loading purse: %w", err)
	}
	return purse, nil
}

func (s *PostgresStore) Credit(ctx context.Context, username string, amount int) error {
	return s.adjust(ctx, username, amount)
}

func (s *PostgresStore) Debit(ctx context.Context, username string, amount int) error {
	return s.adjust(ctx, username, -amount)
}

func (s *PostgresStore) adjust(ctx context.Context, username string, delta int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE twenty_one_users SET purse = purse + $2 WHERE username = $1`,
		username, delta)
	if err != nil {
		return fmt.Errorf("adjusting purse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	s.logger.Debug().Str("user", username).Int("delta", delta).Msg("purse adjusted")
	return nil
}

func (s *PostgresStore) RecordOutcome(ctx context.Context, username string, winner game.Winner) error {
	column := "losses"
	if winner == game.WinnerPlayer {
		column = "wins"
	}

	// column is one of two fixed identifiers, never user input.
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE twenty_one_users SET %s = %s + 1 WHERE username = $1`, column, column),
		username)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	return nil
}

func (s *PostgresStore) Leaderboard(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT username, purse, wins, losses
		   FROM twenty_one_users
		  ORDER BY purse DESC, wins DESC, username`)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Username, &e.Purse, &e.Wins, &e.Losses); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateUser inserts a new account with a bcrypt-hashed password and the
// starting purse. Used by ops tooling and tests, not the game flow.
func (s *PostgresStore) CreateUser(ctx context.Context, username, password string, purse int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO twenty_one_users (username, password, purse) VALUES ($1, $2, $3)`,
		username, string(hashed), purse)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
