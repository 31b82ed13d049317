package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Primary Discord guild ID

	// Ledger configuration
	AdminID      int64         // Discord ID allowed to draw and change settings
	TicketPrice  int64         // gross price per ticket
	LockDuration time.Duration // refund lock window after purchase

	// Treasury configuration
	StartingBalance int64 // balance seeded for first-time players

	// Audit trail configuration (optional; disabled when empty)
	DatabaseURL string

	// NATS configuration (optional; disabled when empty)
	NATSServers string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Set replaces the global configuration. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// NewTestConfig returns a configuration usable without any environment.
func NewTestConfig() *Config {
	return &Config{
		DiscordToken:    "test-token",
		AdminID:         1,
		TicketPrice:     1000,
		LockDuration:    24 * time.Hour,
		StartingBalance: 100000,
		Environment:     "test",
	}
}

func load() (*Config, error) {
	config := &Config{
		DiscordToken:    os.Getenv("DISCORD_TOKEN"),
		GuildID:         os.Getenv("GUILD_ID"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		NATSServers:     os.Getenv("NATS_SERVERS"),
		Environment:     os.Getenv("ENVIRONMENT"),
		TicketPrice:     1000,
		LockDuration:    24 * time.Hour,
		StartingBalance: 100000,
	}

	if adminID := os.Getenv("ADMIN_ID"); adminID != "" {
		id, err := strconv.ParseInt(adminID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ID: %w", err)
		}
		config.AdminID = id
	}
	if price := os.Getenv("TICKET_PRICE"); price != "" {
		if parsed, err := strconv.ParseInt(price, 10, 64); err == nil {
			config.TicketPrice = parsed
		}
	}
	if lock := os.Getenv("LOCK_DURATION"); lock != "" {
		parsed, err := time.ParseDuration(lock)
		if err != nil {
			return nil, fmt.Errorf("invalid LOCK_DURATION: %w", err)
		}
		config.LockDuration = parsed
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.AdminID == 0 {
			return nil, fmt.Errorf("ADMIN_ID is required")
		}
	}

	return config, nil
}
