package main

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	rand "math/rand/v2"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/ledger"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/server"
)

// ServeCmd runs the web server.
type ServeCmd struct {
	Config string `kong:"default='twentyone.hcl',help='Path to the HCL config file'"`
	JSON   bool   `kong:"help='Emit structured JSON logs instead of console output'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for deck shuffles (optional)'"`
}

func (c *ServeCmd) Run() error {
	// Local .env files override nothing that is already exported.
	_ = godotenv.Load()

	config, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", config.Server.LogLevel, err)
	}
	var logger zerolog.Logger
	if c.JSON {
		logger = shared.SetupStructuredLogger(level)
	} else {
		logger = shared.SetupLogger(level)
	}

	if config.Server.SessionSecret == "" {
		buf := make([]byte, 32)
		if _, err := cryptorand.Read(buf); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		config.Server.SessionSecret = hex.EncodeToString(buf)
		logger.Warn().Msg("no session secret configured, sessions will not survive a restart")
	}

	var rng *rand.Rand
	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	} else {
		seed = time.Now().UnixNano()
	}
	rng = randutil.New(seed)

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	var store ledger.Store
	if config.Database.URL != "" {
		pg, err := ledger.NewPostgresStore(ctx, config.Database.URL, logger)
		if err != nil {
			return fmt.Errorf("connect ledger database: %w", err)
		}
		store = pg
		logger.Info().Msg("using postgres ledger")
	} else {
		store = ledger.NewMemoryStore()
		logger.Warn().Msg("no database configured, purses are held in memory")
	}
	defer store.Close()

	srv, err := server.New(config, store, rng, quartz.NewReal(), logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("address", config.ListenAddr()).
		Int("starting_purse", config.Game.StartingPurse).
		Int("min_bet", config.Game.MinBet).
		Msg("Starting Twenty-One server")

	return srv.Run(ctx)
}
