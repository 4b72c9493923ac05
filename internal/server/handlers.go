package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/ledger"
	"github.com/lox/twentyone/internal/session"
)

func (s *Server) basePage(sess *session.Session) pageData {
	return pageData{
		Username: sess.Username,
		SignedIn: sess.SignedIn,
		Purse:    sess.Purse,
		Flashes:  sess.TakeFlashes(),
	}
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	s.render(w, "start", s.basePage(sess))
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	s.render(w, "new", s.basePage(sess))
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	round := s.engine.StartRound()
	if !s.saveRound(sess, round) {
		http.Error(w, "failed to initialize game", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/bet", http.StatusFound)
}

func (s *Server) handleBetPage(w http.ResponseWriter, _ *http.Request, sess *session.Session, _ *game.Round) {
	data := s.basePage(sess)
	data.MinBet = s.config.Game.MinBet
	s.render(w, "bet", data)
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request, sess *session.Session, round *game.Round) {
	amount, err := strconv.Atoi(r.FormValue("betAmount"))
	if err != nil {
		sess.AddFlash("error", "Bets must be a whole dollar amount.")
		http.Redirect(w, r, "/game/bet", http.StatusFound)
		return
	}

	if err := s.engine.PlaceBet(round, amount); err != nil {
		if errors.Is(err, game.ErrInvalidBet) {
			sess.AddFlash("error", "Bets must be a positive dollar amount.")
			http.Redirect(w, r, "/game/bet", http.StatusFound)
			return
		}
		s.fail(w, sess, err)
		return
	}

	if !s.saveRound(sess, round) {
		http.Error(w, "failed to place bet", http.StatusInternalServerError)
		return
	}

	sess.AddFlash("gameplay", "Bet placed!")
	http.Redirect(w, r, phasePath(round.Phase()), http.StatusFound)
}

func (s *Server) gamePage(sess *session.Session, round *game.Round) pageData {
	data := s.basePage(sess)
	data.Bet = round.Bet()
	data.PlayerCards = cardViews(round.Player().Cards())
	data.DealerCards = cardViews(round.DealerVisible())
	data.PlayerValue = round.Player().Value()
	data.DealerHidden = round.DealerHidden()
	if !round.DealerHidden() {
		data.DealerValue = round.Dealer().Value()
	}
	return data
}

func (s *Server) handlePlayerTurn(w http.ResponseWriter, _ *http.Request, sess *session.Session, round *game.Round) {
	s.render(w, "player-turn", s.gamePage(sess, round))
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request, sess *session.Session, round *game.Round) {
	if err := s.engine.Hit(round); err != nil {
		s.fail(w, sess, err)
		return
	}
	if !s.saveRound(sess, round) {
		http.Error(w, "failed to deal card", http.StatusInternalServerError)
		return
	}

	if round.Phase() == game.PhaseOver {
		sess.AddFlash("gameplay", "You busted!")
	} else {
		sess.AddFlash("gameplay", "Hit!")
	}
	http.Redirect(w, r, phasePath(round.Phase()), http.StatusFound)
}

func (s *Server) handleStand(w http.ResponseWriter, r *http.Request, sess *session.Session, round *game.Round) {
	if err := s.engine.Stand(round); err != nil {
		s.fail(w, sess, err)
		return
	}
	if !s.saveRound(sess, round) {
		http.Error(w, "failed to stand", http.StatusInternalServerError)
		return
	}

	sess.AddFlash("gameplay", "Stand!")
	sess.AddFlash("gameplay", "The dealer revealed their facedown card!")
	http.Redirect(w, r, "/game/dealer/turn", http.StatusFound)
}

func (s *Server) handleDealerTurn(w http.ResponseWriter, _ *http.Request, sess *session.Session, round *game.Round) {
	s.render(w, "dealer-turn", s.gamePage(sess, round))
}

func (s *Server) handleDealerPlay(w http.ResponseWriter, r *http.Request, sess *session.Session, round *game.Round) {
	before := round.Dealer().Len()
	if err := s.engine.RunDealerTurn(round); err != nil {
		s.fail(w, sess, err)
		return
	}
	if !s.saveRound(sess, round) {
		http.Error(w, "failed to play dealer turn", http.StatusInternalServerError)
		return
	}

	hits := round.Dealer().Len() - before
	if round.Dealer().Busted() {
		sess.AddFlash("gameplay", fmt.Sprintf("The dealer busted after %d hit(s)!", hits))
	} else {
		sess.AddFlash("gameplay", fmt.Sprintf("The dealer stands after %d hit(s).", hits))
	}
	http.Redirect(w, r, "/game/over", http.StatusFound)
}

func (s *Server) handleOverPage(w http.ResponseWriter, _ *http.Request, sess *session.Session, round *game.Round) {
	out, err := game.Resolve(round)
	if err != nil {
		s.fail(w, sess, err)
		return
	}

	data := s.gamePage(sess, round)
	data.DealerValue = round.Dealer().Value()
	data.PlayerBusted = round.Player().Busted()
	data.DealerBusted = round.Dealer().Busted()
	data.Winner = out.Winner.String()
	data.Blackjack = out.Blackjack
	s.render(w, "over", data)
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request, sess *session.Session, round *game.Round) {
	out, err := game.Resolve(round)
	if err != nil {
		s.fail(w, sess, err)
		return
	}

	if sess.SignedIn {
		delta, err := ledger.ApplyOutcome(r.Context(), s.store, sess.Username, round.Bet(), out)
		if err != nil {
			s.logger.Error().Err(err).Str("user", sess.Username).Msg("settling round")
			http.Error(w, "failed to settle round", http.StatusInternalServerError)
			return
		}

		switch {
		case delta > 0:
			sess.AddFlash("gameplay", fmt.Sprintf("You've won %d dollars!", delta))
		case delta < 0:
			sess.AddFlash("gameplay", fmt.Sprintf("You've lost %d dollars!", -delta))
		default:
			sess.AddFlash("gameplay", "Your bet has been returned.")
		}

		purse, err := s.store.Purse(r.Context(), sess.Username)
		if err != nil {
			s.logger.Error().Err(err).Str("user", sess.Username).Msg("reloading purse")
		} else {
			sess.Purse = purse
		}
	}

	sess.EndRound()
	http.Redirect(w, r, "/game/new", http.StatusFound)
}

func (s *Server) handleSignInPage(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	sess.AddFlash("info", "Please enter your username and password.")
	s.render(w, "signin", s.basePage(sess))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	ok, err := s.store.Authenticate(r.Context(), username, password)
	if err != nil {
		s.logger.Error().Err(err).Msg("authenticating")
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		return
	}
	if !ok {
		s.logger.Info().Str("user", username).Msg("failed sign-in")
		data := s.basePage(sess)
		data.Flashes = append(data.Flashes, session.Flash{Kind: "error", Text: "Invalid credentials."})
		data.FormUsername = username
		s.render(w, "signin", data)
		return
	}

	purse, err := s.store.Purse(r.Context(), username)
	if err != nil {
		s.logger.Error().Err(err).Str("user", username).Msg("loading purse")
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		return
	}

	// A sign-in abandons any anonymous game in progress.
	sess.EndRound()
	sess.Username = username
	sess.SignedIn = true
	sess.Purse = purse
	s.setSessionCookie(w, sess)

	s.logger.Info().Str("user", username).Msg("signed in")
	sess.AddFlash("info", "Sign in successful!")
	http.Redirect(w, r, "/game/start", http.StatusFound)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.logger.Info().Str("user", sess.Username).Msg("signed out")
	sess.SignOut()
	s.setSessionCookie(w, sess)
	sess.AddFlash("info", "Sign out successful!")
	http.Redirect(w, r, "/game/start", http.StatusFound)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !sess.SignedIn {
		s.logger.Info().Msg("unauthorized leaderboard access")
		http.Error(w, "Unauthorized.", http.StatusUnauthorized)
		return
	}

	entries, err := s.store.Leaderboard(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("loading leaderboard")
		http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	data := s.basePage(sess)
	data.Entries = entries
	s.render(w, "leaderboard", data)
}

// fail handles errors that the phase guard should have made impossible,
// plus genuinely fatal ones like deck exhaustion. The round is abandoned.
func (s *Server) fail(w http.ResponseWriter, sess *session.Session, err error) {
	s.logger.Error().Err(err).Str("session", sess.ID).Msg("aborting round")
	sess.EndRound()
	http.Error(w, "something went wrong; the round was abandoned", http.StatusInternalServerError)
}
