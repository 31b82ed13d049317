package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lotto/bot"
	"lotto/config"
	"lotto/database"
	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/infrastructure"
	"lotto/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting lotto bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize the in-memory ledger
	ledger, err := repository.NewLedger(entities.Settings{
		TicketPrice:  cfg.TicketPrice,
		LockDuration: cfg.LockDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}

	// Initialize event bus
	eventBus := infrastructure.NewBus()

	// Initialize the treasury that backs ticket payments
	treasury := infrastructure.NewTreasury()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(ledger, eventBus)

	// Optionally connect the durable audit trail
	var auditLog *repository.AuditLogRepository
	var db *database.DB
	if cfg.DatabaseURL != "" {
		log.Info("Connecting to database...")
		db, err = database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		auditLog = repository.NewAuditLogRepository(db)
		infrastructure.NewAuditRecorder(auditLog).Attach(eventBus)
		log.Info("Audit trail enabled")
	}

	// Optionally forward committed events to NATS
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Info("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient)
		eventBus.SubscribeAll(func(ctx context.Context, event events.Event) {
			if err := natsPublisher.Publish(event); err != nil {
				log.WithError(err).WithField("eventType", event.Type()).Error("failed to forward event to NATS")
			}
		})
		log.Info("NATS event forwarding enabled")
	}

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.GuildID,
		AdminID:         cfg.AdminID,
		StartingBalance: cfg.StartingBalance,
	}
	discordBot, err := bot.New(botConfig, uowFactory, treasury, auditLog, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give in-flight event handlers time to drain
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
