package lottery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"lotto/bot/common"
	"lotto/domain/entities"
	"lotto/domain/services"
)

const ticketsPerPage = 10

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ownerID, ok := callerID(s, i)
	if !ok {
		return
	}

	numbers, err := parsePick(stringOption(opts, "numbers"))
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for buy")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	ticket, err := ticketService.PurchaseTicket(ctx, ownerID, numbers)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit ticket purchase")
		common.RespondWithError(s, i, "Unable to complete purchase. Please try again.")
		return
	}

	message := fmt.Sprintf("Ticket **#%d** issued: %s", ticket.ID, common.FormatNumbers(ticket.Numbers))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to buy command: %v", err)
	}
}

func (f *Feature) handleBuyMulti(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ownerID, ok := callerID(s, i)
	if !ok {
		return
	}

	picks, err := parsePicks(stringOption(opts, "picks"))
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for buymulti")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	result, err := ticketService.PurchaseTickets(ctx, ownerID, picks)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit batch ticket purchase")
		common.RespondWithError(s, i, "Unable to complete purchase. Please try again.")
		return
	}

	first := result.Tickets[0].ID
	last := result.Tickets[len(result.Tickets)-1].ID
	message := fmt.Sprintf("Issued **%d** tickets (#%d-#%d) for **%s bits**",
		len(result.Tickets), first, last, common.FormatAmount(result.TotalCost))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to buymulti command: %v", err)
	}
}

func (f *Feature) handleRefund(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ownerID, ok := callerID(s, i)
	if !ok {
		return
	}

	ticketID := intOption(opts, "id")
	if ticketID <= 0 {
		common.RespondWithError(s, i, "Provide a valid ticket id.")
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for refund")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	amount, err := ticketService.RefundTicket(ctx, ownerID, ticketID)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit ticket refund")
		common.RespondWithError(s, i, "Unable to complete refund. Please try again.")
		return
	}

	message := fmt.Sprintf("Ticket **#%d** refunded for **%s bits**", ticketID, common.FormatAmount(amount))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to refund command: %v", err)
	}
}

func (f *Feature) handleRefundAll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ownerID, ok := callerID(s, i)
	if !ok {
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for refundall")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	result, err := ticketService.RefundAllTickets(ctx, ownerID)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("failed to commit bulk refund")
		common.RespondWithError(s, i, "Unable to complete refund. Please try again.")
		return
	}

	message := fmt.Sprintf("Refunded **%d** tickets for **%s bits**",
		result.TicketsRefunded, common.FormatAmount(result.TotalAmount))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to refundall command: %v", err)
	}
}

func (f *Feature) handleTickets(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ownerID, ok := callerID(s, i)
	if !ok {
		return
	}

	page := intOption(opts, "page")
	if page < 1 {
		page = 1
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for tickets")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	tickets, err := ticketService.GetUserTickets(ctx, ownerID, int(page-1)*ticketsPerPage, ticketsPerPage)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	total, err := ticketService.CountUserTickets(ctx, ownerID)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	refundable, err := ticketService.CountRefundableTickets(ctx, ownerID)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := buildTicketsEmbed(displayName, tickets, total, refundable, int(page), settings)
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to tickets command: %v", err)
	}
}

func (f *Feature) handleCheck(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	ownerID, ok := callerID(s, i)
	if !ok {
		return
	}

	page := intOption(opts, "page")
	if page < 1 {
		page = 1
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for check")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	winCheckService := services.NewWinCheckService(uow.TicketRepository(), uow.DrawRepository(), f.adminID)
	results, err := winCheckService.CheckForWins(ctx, ownerID, int(page-1)*ticketsPerPage, ticketsPerPage)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	draw, err := uow.DrawRepository().Latest(ctx)
	if err != nil {
		log.WithError(err).Error("failed to get latest draw for check")
		common.RespondWithError(s, i, "Unable to check your tickets. Please try again.")
		return
	}
	if draw == nil {
		common.RespondWithError(s, i, common.UserMessage(entities.ErrNoCompletedDraw))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := buildWinCheckEmbed(displayName, results, draw, int(page))
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to check command: %v", err)
	}
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("failed to begin unit of work for status")
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	defer uow.Rollback()

	ticketService := services.NewTicketService(uow.TicketRepository(), uow.SettingsRepository(), f.payments, uow.EventPublisher(), f.adminID)
	totalIssued, err := ticketService.TotalTickets(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	active, err := ticketService.CountActiveTickets(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	period, err := uow.DrawRepository().CurrentPeriod(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}
	latest, err := uow.DrawRepository().Latest(ctx)
	if err != nil {
		common.RespondWithError(s, i, common.UserMessage(err))
		return
	}

	embed := buildStatusEmbed(settings, period, latest, totalIssued, active)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to status command: %v", err)
	}
}

// callerID converts the Discord string user id to the ledger's int64 owner
// id, reporting an error to the user on failure.
func callerID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	id, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}
	return id, true
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

// parsePick parses a single pick like "3 17 22 31 40 49". Commas are
// accepted as separators too. Shape validation (count, range, duplicates)
// stays with the service; this only needs integers.
func parsePick(raw string) ([]int64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("provide your numbers, e.g. `3 17 22 31 40 49`")
	}

	numbers := make([]int64, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("`%s` is not a number", field)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// parsePicks parses semicolon-separated picks like
// "1 2 3 4 5 6; 7 8 9 10 11 12".
func parsePicks(raw string) ([][]int64, error) {
	var picks [][]int64
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pick, err := parsePick(part)
		if err != nil {
			return nil, err
		}
		picks = append(picks, pick)
	}
	if len(picks) == 0 {
		return nil, fmt.Errorf("provide at least one pick, separated by `;`")
	}
	return picks, nil
}
