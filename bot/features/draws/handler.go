package draws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"lotto/bot/common"
	"lotto/domain/entities"
	"lotto/domain/services"
)

func (f *Feature) handleConduct(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	callerID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// An explicit seed makes the draw reproducible for audits; without one we
	// mix a fresh uuid with the interaction id.
	entropy := seedOption(opts)
	if len(entropy) == 0 {
		entropy = []byte(uuid.NewString() + ":" + i.ID)
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for draw")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(uow.DrawRepository(), uow.EventPublisher(), f.adminID)
	draw, err := drawService.ConductDraw(ctx, callerID, entropy)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit draw")
		common.RespondWithError(s, i, "Unable to complete the draw. Please try again.")
		return
	}

	embed := buildDrawEmbed("🎲 Draw complete", draw)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to draw conduct command: %v", err)
	}
}

func (f *Feature) handleNumbers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for draw numbers")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(uow.DrawRepository(), uow.EventPublisher(), f.adminID)
	draw, err := drawService.GetCurrentWinningNumbers(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	embed := buildDrawEmbed("🏆 Latest winning numbers", draw)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to draw numbers command: %v", err)
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var period int64
	for _, opt := range opts {
		if opt.Name == "period" {
			period = opt.IntValue()
		}
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for draw history")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(uow.DrawRepository(), uow.EventPublisher(), f.adminID)
	draw, err := drawService.GetDrawHistory(ctx, period)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	embed := buildDrawEmbed(fmt.Sprintf("📜 Draw for period %d", draw.Period), draw)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to draw history command: %v", err)
	}
}

func seedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) []byte {
	for _, opt := range opts {
		if opt.Name == "seed" {
			return []byte(opt.StringValue())
		}
	}
	return nil
}

func buildDrawEmbed(title string, draw *entities.Draw) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     title,
		Color:     0xFEE75C, // Discord yellow
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Period",
				Value:  fmt.Sprintf("%d", draw.Period),
				Inline: true,
			},
			{
				Name:   "Numbers",
				Value:  common.FormatNumbers(draw.Numbers),
				Inline: true,
			},
			{
				Name:   "Drawn",
				Value:  common.FormatDiscordTimestamp(draw.DrawnAt, "f"),
				Inline: true,
			},
		},
	}
}
