// Package tui is the standalone terminal variant of twenty-one: a $5 purse
// on the house, flat-dollar bets, play until rich or broke.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/game"
)

const (
	// StartingPurse is the stake the house fronts a new player.
	StartingPurse = 5

	// RichLimit ends the run as a win when the purse reaches it.
	RichLimit = 10

	// BrokeLimit ends the run as a loss when the purse falls to it.
	BrokeLimit = 0
)

type state int

const (
	stateBet state = iota
	statePlayer
	stateDealer
	stateRoundEnd
	stateGameEnd
)

// dealerTick paces the dealer's draws so they land one at a time.
type dealerTick struct{}

// Model is the Bubble Tea model for the terminal game.
type Model struct {
	engine *game.Engine
	round  *game.Round
	state  state

	purse    int
	betInput textinput.Model
	message  string
	outcome  *game.Outcome
	err      error
}

// NewModel creates a fresh game with the starting purse.
func NewModel(engine *game.Engine) Model {
	input := textinput.New()
	input.Placeholder = "1"
	input.CharLimit = 3
	input.Width = 6
	input.Focus()

	return Model{
		engine:   engine,
		purse:    StartingPurse,
		betInput: input,
		state:    stateBet,
		round:    engine.StartRound(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case stateBet:
			return m.updateBet(msg)
		case statePlayer:
			return m.updatePlayer(msg)
		case stateRoundEnd:
			return m.updateRoundEnd(msg)
		case stateGameEnd:
			return m.updateGameEnd(msg)
		}

	case dealerTick:
		if m.state == stateDealer {
			return m.stepDealer()
		}
	}

	if m.state == stateBet {
		var cmd tea.Cmd
		m.betInput, cmd = m.betInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBet(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		raw := strings.TrimSpace(m.betInput.Value())
		if raw == "" {
			raw = "1"
		}
		amount, err := strconv.Atoi(raw)
		if err != nil || amount <= 0 || amount > m.purse {
			m.message = fmt.Sprintf("Bets must be between $1 and your purse ($%d).", m.purse)
			return m, nil
		}

		if err := m.engine.PlaceBet(m.round, amount); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.message = ""
		m.betInput.Blur()

		if m.round.Phase() == game.PhaseOver {
			return m.resolve()
		}
		m.state = statePlayer
		return m, nil
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

func (m Model) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h":
		if err := m.engine.Hit(m.round); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if m.round.Phase() == game.PhaseOver {
			m.message = "You busted!"
			return m.resolve()
		}
		return m, nil

	case "s":
		if err := m.engine.Stand(m.round); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.state = stateDealer
		return m, dealerPause()

	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) stepDealer() (tea.Model, tea.Cmd) {
	done, err := m.engine.DealerStep(m.round)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	if done {
		return m.resolve()
	}
	return m, dealerPause()
}

func dealerPause() tea.Cmd {
	return tea.Tick(600*time.Millisecond, func(time.Time) tea.Msg {
		return dealerTick{}
	})
}

func (m Model) resolve() (tea.Model, tea.Cmd) {
	out, err := game.Resolve(m.round)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.outcome = &out

	switch out.Winner {
	case game.WinnerPlayer:
		m.purse += int(float64(m.round.Bet()) * out.PayoutMultiplier)
	case game.WinnerDealer:
		m.purse -= m.round.Bet()
	}

	if m.purse >= RichLimit || m.purse <= BrokeLimit {
		m.state = stateGameEnd
	} else {
		m.state = stateRoundEnd
	}
	return m, nil
}

func (m Model) updateRoundEnd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m.newRound(), nil
	case "n", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateGameEnd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		// The house resets the purse for a fresh run.
		m.purse = StartingPurse
		return m.newRound(), nil
	case "n", "q", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) newRound() Model {
	m.round = m.engine.StartRound()
	m.outcome = nil
	m.message = ""
	m.state = stateBet
	m.betInput.SetValue("")
	m.betInput.Focus()
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.err != nil {
		return loseStyle.Render(fmt.Sprintf("The table had a problem: %v\n", m.err))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Twenty-One"))
	b.WriteString("  ")
	b.WriteString(purseStyle.Render(fmt.Sprintf("Purse: $%d", m.purse)))
	b.WriteString("\n\n")

	switch m.state {
	case stateBet:
		b.WriteString("Each hand plays against the dealer. Get rich ($10) or go broke ($0)!\n\n")
		b.WriteString(promptStyle.Render("Your bet: "))
		b.WriteString(m.betInput.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("enter to deal, q to quit"))

	case statePlayer:
		m.renderTable(&b, true)
		b.WriteString(promptStyle.Render("(h)it or (s)tand?"))

	case stateDealer:
		m.renderTable(&b, false)
		b.WriteString(infoStyle.Render("The dealer is drawing..."))

	case stateRoundEnd, stateGameEnd:
		m.renderTable(&b, false)
		b.WriteString(m.outcomeLine())
		b.WriteString("\n\n")
		if m.state == stateGameEnd {
			if m.purse >= RichLimit {
				b.WriteString(winStyle.Render("You're rich! "))
			} else {
				b.WriteString(loseStyle.Render("You're broke! "))
			}
			b.WriteString(promptStyle.Render("Start over with a fresh $5? (y/n)"))
		} else {
			b.WriteString(promptStyle.Render("Play another hand? (y/n)"))
		}
	}

	if m.message != "" {
		b.WriteString("\n\n")
		b.WriteString(loseStyle.Render(m.message))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTable(b *strings.Builder, hideDealer bool) {
	b.WriteString("Dealer")
	if !hideDealer || !m.round.DealerHidden() {
		b.WriteString(fmt.Sprintf("  Total: %d", m.round.Dealer().Value()))
	}
	b.WriteString("\n")
	if hideDealer && m.round.DealerHidden() {
		cards := m.round.DealerVisible()
		b.WriteString(renderCards(cards))
		b.WriteString(" ")
		b.WriteString(hiddenCardStyle.Render("[??]"))
	} else {
		b.WriteString(renderCards(m.round.Dealer().Cards()))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("You  Total: %d\n", m.round.Player().Value()))
	b.WriteString(renderCards(m.round.Player().Cards()))
	b.WriteString("\n\n")
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		label := fmt.Sprintf("[%s%s]", c.Rank.String(), c.Suit.Symbol())
		if c.Suit.IsRed() {
			parts[i] = redCardStyle.Render(label)
		} else {
			parts[i] = blackCardStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) outcomeLine() string {
	switch {
	case m.outcome == nil:
		return ""
	case m.outcome.Blackjack:
		return winStyle.Render(fmt.Sprintf("Blackjack! You win $%d!", int(float64(m.round.Bet())*1.5)))
	case m.outcome.Winner == game.WinnerPlayer:
		return winStyle.Render(fmt.Sprintf("You win this hand! +$%d", m.round.Bet()))
	case m.outcome.Winner == game.WinnerDealer:
		return loseStyle.Render(fmt.Sprintf("The dealer wins this hand! -$%d", m.round.Bet()))
	default:
		return infoStyle.Render("Push! Your bet is returned.")
	}
}
