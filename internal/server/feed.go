package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// dealerEvent is one step of the dealer's turn as seen by a live page.
type dealerEvent struct {
	Type        string   `json:"type"` // "hit", "stand", or "bust"
	Card        string   `json:"card,omitempty"`
	DealerCards []string `json:"dealer_cards"`
	DealerValue int      `json:"dealer_value"`
}

// handleDealerFeed streams the dealer's turn one card at a time over a
// WebSocket, for pages that animate the dealer drawing instead of playing
// the whole turn in one request. The round advances server-side exactly as
// it would through the form flow.
func (s *Server) handleDealerFeed(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !sess.InProgress() {
		http.Error(w, "no game in progress", http.StatusConflict)
		return
	}
	round, err := game.Deserialize(sess.Round)
	if err != nil {
		s.logger.Error().Err(err).Str("session", sess.ID).Msg("corrupt round state")
		sess.EndRound()
		http.Error(w, "corrupt game state", http.StatusConflict)
		return
	}
	if round.Phase() != game.PhaseDealerTurn {
		http.Error(w, "not the dealer's turn", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("upgrading dealer feed")
		return
	}
	defer conn.Close()

	for {
		before := round.Dealer().Len()
		done, err := s.engine.DealerStep(round)
		if err != nil {
			s.logger.Error().Err(err).Str("session", sess.ID).Msg("dealer step")
			sess.EndRound()
			return
		}
		if !s.saveRound(sess, round) {
			return
		}

		event := dealerEvent{
			DealerCards: cardCodes(round.Dealer()),
			DealerValue: round.Dealer().Value(),
		}
		cards := round.Dealer().Cards()
		if round.Dealer().Len() > before {
			event.Card = cards[len(cards)-1].String()
			event.Type = "hit"
		}
		if done {
			event.Type = "stand"
			if round.Dealer().Busted() {
				event.Type = "bust"
			}
		}

		if err := conn.WriteJSON(event); err != nil {
			s.logger.Debug().Err(err).Msg("dealer feed client gone")
			return
		}
		if done {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round over"))
			return
		}
	}
}

func cardCodes(h game.Hand) []string {
	cards := h.Cards()
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return codes
}
