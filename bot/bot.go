package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"lotto/bot/features/admin"
	"lotto/bot/features/draws"
	"lotto/bot/features/lottery"
	"lotto/domain/events"
	"lotto/domain/interfaces"
	"lotto/infrastructure"
	"lotto/repository"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	AdminID         int64
	StartingBalance int64
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	treasury *infrastructure.Treasury

	lotteryFeature *lottery.Feature
	drawsFeature   *draws.Feature
	adminFeature   *admin.Feature

	eventBus *infrastructure.Bus
}

func New(
	config Config,
	uowFactory interfaces.UnitOfWorkFactory,
	treasury *infrastructure.Treasury,
	auditLog *repository.AuditLogRepository,
	eventBus *infrastructure.Bus,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged

	bot := &Bot{
		config:         config,
		session:        dg,
		treasury:       treasury,
		lotteryFeature: lottery.New(uowFactory, treasury, config.AdminID),
		drawsFeature:   draws.New(uowFactory, config.AdminID),
		adminFeature:   admin.New(uowFactory, treasury, treasury, auditLog, config.AdminID),
		eventBus:       eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Seed a starting balance for anyone who interacts with the bot
	dg.AddHandler(bot.seedBalance)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Log completed draws from the committed-event stream
	eventBus.Subscribe(events.EventTypeNumbersDrawn, func(ctx context.Context, event events.Event) {
		drawn, ok := event.(events.NumbersDrawnEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"period":  drawn.Period,
			"numbers": drawn.Numbers,
		}).Info("draw completed")
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "lotto":
		b.lotteryFeature.HandleCommand(s, i)
	case "draw":
		b.drawsFeature.HandleCommand(s, i)
	case "lottoadmin":
		b.adminFeature.HandleCommand(s, i)
	}
}

// seedBalance credits the starting balance for first-time players. SeedOnce
// only touches unseen accounts, so running it on every interaction is safe.
func (b *Bot) seedBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.User == nil {
		return
	}
	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return
	}
	if b.treasury.SeedOnce(discordID, b.config.StartingBalance) {
		log.WithField("discordID", discordID).Info("seeded starting balance")
	}
}
