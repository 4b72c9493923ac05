package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/ledger"
	"github.com/lox/twentyone/internal/server"
)

// AddUserCmd registers a player account in the ledger database.
type AddUserCmd struct {
	Config   string `kong:"default='twentyone.hcl',help='Path to the HCL config file'"`
	Username string `kong:"arg='',help='Account username'"`
	Password string `kong:"arg='',help='Account password'"`
	Purse    int    `kong:"default='100',help='Starting purse in dollars'"`
}

func (c *AddUserCmd) Run() error {
	_ = godotenv.Load()

	config, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if config.Database.URL == "" {
		return fmt.Errorf("no database configured, set %s or database.url in %s", server.EnvDatabaseURL, c.Config)
	}

	logger := shared.SetupLogger(zerolog.WarnLevel)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	store, err := ledger.NewPostgresStore(ctx, config.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("connect ledger database: %w", err)
	}
	defer store.Close()

	if err := store.CreateUser(ctx, c.Username, c.Password, c.Purse); err != nil {
		return err
	}
	fmt.Printf("created %s with a $%d purse\n", c.Username, c.Purse)
	return nil
}
