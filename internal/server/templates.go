package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/ledger"
	"github.com/lox/twentyone/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"start", "new", "bet", "player-turn", "dealer-turn", "over",
	"signin", "leaderboard",
}

// templates holds one parsed template per page, each sharing the layout.
type templates struct {
	pages map[string]*template.Template
}

func loadTemplates() (*templates, error) {
	t := &templates{pages: make(map[string]*template.Template)}
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", name))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// cardView is a card prepared for rendering.
type cardView struct {
	Code string
	Red  bool
}

func cardViews(cards []deck.Card) []cardView {
	out := make([]cardView, len(cards))
	for i, c := range cards {
		out[i] = cardView{
			Code: c.Rank.String() + c.Suit.Symbol(),
			Red:  c.Suit.IsRed(),
		}
	}
	return out
}

// pageData is the template context shared by every page, with per-page
// fields populated as needed.
type pageData struct {
	Username string
	SignedIn bool
	Purse    int
	Flashes  []session.Flash

	// Game pages
	Bet          int
	PlayerCards  []cardView
	DealerCards  []cardView
	PlayerValue  int
	DealerValue  int
	DealerHidden bool
	PlayerBusted bool
	DealerBusted bool
	Winner       string
	Blackjack    bool
	MinBet       int

	// Sign-in page
	FormUsername string

	// Leaderboard
	Entries []ledger.Entry
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := s.tmpl.pages[name]
	if !ok {
		s.logger.Error().Str("page", name).Msg("unknown template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error().Err(err).Str("page", name).Msg("rendering template")
	}
}
