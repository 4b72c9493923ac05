package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the web server configuration, loaded from an HCL file with
// environment overrides for deployment secrets.
type Config struct {
	Server   ServerSettings   `hcl:"server,block"`
	Database DatabaseSettings `hcl:"database,block"`
	Game     GameSettings     `hcl:"game,block"`
}

// ServerSettings contains listener and session configuration.
type ServerSettings struct {
	Address           string `hcl:"address,optional"`
	Port              int    `hcl:"port,optional"`
	LogLevel          string `hcl:"log_level,optional"`
	SessionSecret     string `hcl:"session_secret,optional"`
	SessionTTLMinutes int    `hcl:"session_ttl_minutes,optional"`
}

// DatabaseSettings contains the ledger database connection. An empty URL
// selects the in-memory ledger, for local play without Postgres.
type DatabaseSettings struct {
	URL string `hcl:"url,optional"`
}

// GameSettings contains table rules surfaced to players.
type GameSettings struct {
	StartingPurse int `hcl:"starting_purse,optional"`
	MinBet        int `hcl:"min_bet,optional"`
}

// Environment variable overrides applied after file parsing.
const (
	EnvDatabaseURL   = "TWENTYONE_DATABASE_URL"
	EnvSessionSecret = "TWENTYONE_SESSION_SECRET"
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:           "localhost",
			Port:              3000,
			LogLevel:          "info",
			SessionSecret:     "",
			SessionTTLMinutes: 31 * 24 * 60, // matches the month-long cookie
		},
		Game: GameSettings{
			StartingPurse: 5,
			MinBet:        1,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist, then applies env overrides.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		var parsed Config
		diags = gohcl.DecodeBody(file.Body, nil, &parsed)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		*config = parsed
	}

	// Backfill defaults for fields the file left unset.
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.SessionTTLMinutes == 0 {
		config.Server.SessionTTLMinutes = 31 * 24 * 60
	}
	if config.Game.StartingPurse == 0 {
		config.Game.StartingPurse = 5
	}
	if config.Game.MinBet == 0 {
		config.Game.MinBet = 1
	}

	if url := os.Getenv(EnvDatabaseURL); url != "" {
		config.Database.URL = url
	}
	if secret := os.Getenv(EnvSessionSecret); secret != "" {
		config.Server.SessionSecret = secret
	}

	return config, nil
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
