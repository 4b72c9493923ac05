package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/tui"
)

// PlayCmd runs the terminal game.
type PlayCmd struct {
	Seed *int64 `kong:"help='Deterministic RNG seed for deck shuffles (optional)'"`
}

func (c *PlayCmd) Run() error {
	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	engine := game.NewEngine(randutil.New(seed))
	p := tea.NewProgram(tui.NewModel(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
