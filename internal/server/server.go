// Package server is the web front end for twenty-one: server-rendered
// pages, session plumbing, and the glue between the game engine and the
// purse ledger.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	rand "math/rand/v2"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/twentyone/internal/auth"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/ledger"
	"github.com/lox/twentyone/internal/session"
)

const sweepInterval = 10 * time.Minute

// Server wires the engine, ledger, and sessions behind an HTTP listener.
type Server struct {
	config   *Config
	engine   *game.Engine
	store    ledger.Store
	sessions *session.Manager
	tokens   *auth.TokenIssuer
	clock    quartz.Clock
	logger   zerolog.Logger
	tmpl     *templates
}

// New creates a server. The random source feeds deck shuffles; pass a
// seeded source for deterministic tests.
func New(config *Config, store ledger.Store, rng *rand.Rand, clock quartz.Clock, logger zerolog.Logger) (*Server, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(config.Server.SessionTTLMinutes) * time.Minute
	return &Server{
		config:   config,
		engine:   game.NewEngine(rng),
		store:    store,
		sessions: session.NewManager(ttl, clock),
		tokens:   auth.NewTokenIssuer([]byte(config.Server.SessionSecret), ttl),
		clock:    clock,
		logger:   logger.With().Str("component", "server").Logger(),
		tmpl:     tmpl,
	}, nil
}

// Handler returns the full route map. Exposed separately from Run so tests
// can drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/game/start", http.StatusFound)
	})
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /game/start", s.withSession(s.handleStart))
	mux.HandleFunc("POST /game/new", s.withSession(s.handleNewGame))
	mux.HandleFunc("GET /game/new", s.withSession(s.handlePlayAgain))

	mux.HandleFunc("GET /game/bet", s.withRound(game.PhaseBet, s.handleBetPage))
	mux.HandleFunc("POST /game/bet", s.withRound(game.PhaseBet, s.handlePlaceBet))

	mux.HandleFunc("GET /game/player/turn", s.withRound(game.PhasePlayerTurn, s.handlePlayerTurn))
	mux.HandleFunc("POST /game/player/hit", s.withRound(game.PhasePlayerTurn, s.handleHit))
	mux.HandleFunc("POST /game/player/stand", s.withRound(game.PhasePlayerTurn, s.handleStand))

	mux.HandleFunc("GET /game/dealer/turn", s.withRound(game.PhaseDealerTurn, s.handleDealerTurn))
	mux.HandleFunc("POST /game/dealer/play", s.withRound(game.PhaseDealerTurn, s.handleDealerPlay))
	mux.HandleFunc("GET /game/dealer/feed", s.withSession(s.handleDealerFeed))

	mux.HandleFunc("GET /game/over", s.withRound(game.PhaseOver, s.handleOverPage))
	mux.HandleFunc("POST /game/over", s.withRound(game.PhaseOver, s.handleSettle))

	mux.HandleFunc("GET /users/signin", s.withSession(s.handleSignInPage))
	mux.HandleFunc("POST /users/signin", s.withSession(s.handleSignIn))
	mux.HandleFunc("POST /users/signout", s.withSession(s.handleSignOut))

	mux.HandleFunc("GET /game/leaderboard", s.withSession(s.handleLeaderboard))

	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.ListenAddr(),
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := s.sessions.Sweep(); removed > 0 {
					s.logger.Debug().Int("removed", removed).Msg("swept expired sessions")
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
