package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"lotto/bot/common"
	"lotto/domain/entities"
	"lotto/domain/services"
)

const defaultScanLimit = 25

func (f *Feature) handleSetPrice(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	callerID, ok := callerID(s, i)
	if !ok {
		return
	}
	price := intOption(opts, "price")

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for setprice")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	if err := ticketService.SetTicketPrice(ctx, callerID, price); err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit price update")
		common.RespondWithError(s, i, "Unable to update the price. Please try again.")
		return
	}

	message := fmt.Sprintf("Ticket price set to **%s bits**", common.FormatAmount(price))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to setprice command: %v", err)
	}
}

func (f *Feature) handleSetLock(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	callerID, ok := callerID(s, i)
	if !ok {
		return
	}

	raw := stringOption(opts, "duration")
	lockDuration, err := time.ParseDuration(raw)
	if err != nil {
		common.RespondWithError(s, i, fmt.Sprintf("`%s` is not a duration. Use Go syntax, e.g. `24h` or `90m`.", raw))
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for setlock")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	if err := ticketService.SetLockDuration(ctx, callerID, lockDuration); err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit lock duration update")
		common.RespondWithError(s, i, "Unable to update the lock duration. Please try again.")
		return
	}

	message := fmt.Sprintf("Refund lock window set to **%s**", common.FormatDuration(lockDuration))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to setlock command: %v", err)
	}
}

func (f *Feature) handleScan(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	callerID, ok := callerID(s, i)
	if !ok {
		return
	}
	startID, limit := scanWindow(opts)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for scan")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	winCheckService := services.NewWinCheckService(uow.TicketRepository(), uow.DrawRepository(), f.adminID)
	results, err := winCheckService.CheckAllTickets(ctx, callerID, startID, limit)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	embed := buildScanEmbed(results, startID, limit)
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to scan command: %v", err)
	}
}

func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	callerID, ok := callerID(s, i)
	if !ok {
		return
	}
	startID, limit := scanWindow(opts)

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for view")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	winCheckService := services.NewWinCheckService(uow.TicketRepository(), uow.DrawRepository(), f.adminID)
	records, err := winCheckService.ViewAllTickets(ctx, callerID, startID, limit)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	embed := buildViewEmbed(records, startID, limit)
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to view command: %v", err)
	}
}

func (f *Feature) handleTreasury(s *discordgo.Session, i *discordgo.InteractionCreate) {
	callerID, ok := callerID(s, i)
	if !ok {
		return
	}
	if callerID != f.adminID {
		common.RespondWithError(s, i, common.UserMessage(entities.ErrNotAdministrator))
		return
	}

	message := fmt.Sprintf("House balance: **%s bits**", common.FormatAmount(f.treasury.HouseBalance()))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to treasury command: %v", err)
	}
}

func (f *Feature) handleAudit(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	callerID, ok := callerID(s, i)
	if !ok {
		return
	}
	if callerID != f.adminID {
		common.RespondWithError(s, i, common.UserMessage(entities.ErrNotAdministrator))
		return
	}
	if f.auditLog == nil {
		common.RespondWithError(s, i, "The audit trail is not configured.")
		return
	}

	limit := intOption(opts, "limit")
	if limit < 1 || limit > defaultScanLimit {
		limit = defaultScanLimit
	}

	entries, err := f.auditLog.Recent(ctx, int(limit))
	if err != nil {
		log.WithError(err).Error("failed to read audit trail")
		common.RespondWithError(s, i, "Unable to read the audit trail.")
		return
	}
	counts, err := f.auditLog.CountByType(ctx)
	if err != nil {
		log.WithError(err).Error("failed to count audit trail")
		common.RespondWithError(s, i, "Unable to read the audit trail.")
		return
	}

	embed := buildAuditEmbed(entries, counts)
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to audit command: %v", err)
	}
}

func callerID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	id, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}
	return id, true
}

func scanWindow(opts []*discordgo.ApplicationCommandInteractionDataOption) (startID, limit int64) {
	startID = intOption(opts, "start")
	if startID < 1 {
		startID = 1
	}
	limit = intOption(opts, "limit")
	if limit < 1 {
		limit = defaultScanLimit
	}
	return startID, limit
}

func stringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func intOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}
