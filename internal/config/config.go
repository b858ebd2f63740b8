package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host string
	Port int
}

// GameConfig holds game-related configuration
type GameConfig struct {
	RoomCodeLength   int
	StaleRoomTimeout time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Game: GameConfig{
			RoomCodeLength:   4,
			StaleRoomTimeout: 2 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.RoomCodeLength < 1 {
		return errors.New("room code length must be at least 1")
	}
	if c.Game.StaleRoomTimeout < 0 {
		return errors.New("stale room timeout must not be negative")
	}
	return nil
}

// Addr returns the server address in host:port format
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
