package server

import (
	"net/http"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/session"
)

const cookieName = "twenty-one-session"

// sessionHandler is a handler with the request's session resolved.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// roundHandler additionally has the round in progress deserialized.
type roundHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session, round *game.Round)

// withSession resolves the browser's session from the signed cookie,
// creating a fresh anonymous session when the cookie is missing, invalid,
// or expired.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.resolveSession(w, r)
		next(w, r, sess)
	}
}

func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(cookieName); err == nil {
		if sid, _, err := s.tokens.Verify(cookie.Value); err == nil {
			if sess, err := s.sessions.Get(sid); err == nil {
				return sess
			}
		} else {
			s.logger.Debug().Err(err).Msg("rejecting session cookie")
		}
	}

	sess := s.sessions.Create()
	s.setSessionCookie(w, sess)
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *session.Session) {
	token, err := s.tokens.Mint(sess.ID, sess.Username)
	if err != nil {
		s.logger.Error().Err(err).Msg("minting session token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// phasePath maps each phase to its canonical page.
func phasePath(p game.Phase) string {
	switch p {
	case game.PhaseBet:
		return "/game/bet"
	case game.PhasePlayerTurn:
		return "/game/player/turn"
	case game.PhaseDealerTurn:
		return "/game/dealer/turn"
	default:
		return "/game/over"
	}
}

// withRound guards game routes: there must be a round in progress and it
// must be in the expected phase. Out-of-order access (reloads, back button,
// hand-edited URLs) redirects to the page for the round's actual phase
// rather than failing.
func (s *Server) withRound(want game.Phase, next roundHandler) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		if !sess.InProgress() {
			sess.AddFlash("error", "No game found. Please start a new game.")
			http.Redirect(w, r, "/game/start", http.StatusFound)
			return
		}

		round, err := game.Deserialize(sess.Round)
		if err != nil {
			// Corrupted state is unrecoverable for the round; drop it.
			s.logger.Error().Err(err).Str("session", sess.ID).Msg("corrupt round state")
			sess.EndRound()
			sess.AddFlash("error", "Something went wrong with your game. Please start a new one.")
			http.Redirect(w, r, "/game/start", http.StatusFound)
			return
		}

		if round.Phase() != want {
			sess.AddFlash("error", wrongPhaseMessage(round.Phase()))
			http.Redirect(w, r, phasePath(round.Phase()), http.StatusFound)
			return
		}

		next(w, r, sess, round)
	})
}

func wrongPhaseMessage(p game.Phase) string {
	switch p {
	case game.PhaseBet:
		return "No bet found. Please place your bet."
	case game.PhasePlayerTurn:
		return "It is your turn to play."
	case game.PhaseDealerTurn:
		return "It is the dealer's turn to play."
	default:
		return "The current game has ended."
	}
}

// saveRound serializes the round back into the session. Errors here mean
// the round state itself is broken, which should be impossible for rounds
// the engine produced.
func (s *Server) saveRound(sess *session.Session, round *game.Round) bool {
	blob, err := game.Serialize(round)
	if err != nil {
		s.logger.Error().Err(err).Str("session", sess.ID).Msg("serializing round")
		sess.EndRound()
		return false
	}
	sess.Round = blob
	return true
}
