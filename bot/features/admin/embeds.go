package admin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"lotto/bot/common"
	"lotto/domain/entities"
	"lotto/repository"
)

const colorAdmin = 0xED4245 // Discord red

// buildScanEmbed creates the reconciliation scan result
func buildScanEmbed(results []*entities.CheckResult, startID, limit int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🔍 Reconciliation scan",
		Color:     colorAdmin,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Ticket ids %d-%d", startID, startID+limit-1),
		},
	}

	if len(results) == 0 {
		embed.Description = "No live, draw-eligible tickets in this id range."
		return embed
	}

	var lines []string
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("**#%d** <@%d> %s — **%d** matched",
			result.TicketID, result.OwnerID,
			common.FormatNumbers(result.Numbers), result.MatchCount))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// buildViewEmbed creates the raw ticket range listing
func buildViewEmbed(records []*entities.TicketRecord, startID, limit int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📋 Ticket range",
		Color:     colorAdmin,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Ticket ids %d-%d", startID, startID+limit-1),
		},
	}

	if len(records) == 0 {
		embed.Description = "No live tickets in this id range."
		return embed
	}

	var lines []string
	for _, record := range records {
		lines = append(lines, fmt.Sprintf("**#%d** <@%d> %s — bought %s",
			record.Ticket.ID, record.OwnerID,
			common.FormatNumbers(record.Ticket.Numbers),
			common.FormatDiscordTimestamp(record.Ticket.PurchasedAt, "R")))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// buildAuditEmbed creates the audit trail overview
func buildAuditEmbed(entries []*repository.AuditEntry, counts map[string]int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🧾 Audit trail",
		Color:     colorAdmin,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(entries) == 0 {
		embed.Description = "No committed events recorded yet."
		return embed
	}

	var lines []string
	for _, entry := range entries {
		owner := ""
		if entry.OwnerID != nil {
			owner = fmt.Sprintf(" <@%d>", *entry.OwnerID)
		}
		lines = append(lines, fmt.Sprintf("`%d` **%s**%s — %s",
			entry.ID, entry.EventType, owner,
			common.FormatDiscordTimestamp(entry.CreatedAt, "R")))
	}
	embed.Description = strings.Join(lines, "\n")

	types := make([]string, 0, len(counts))
	for eventType := range counts {
		types = append(types, eventType)
	}
	sort.Strings(types)

	var totals []string
	for _, eventType := range types {
		totals = append(totals, fmt.Sprintf("%s: %d", eventType, counts[eventType]))
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:  "Totals",
			Value: strings.Join(totals, "\n"),
		},
	}

	return embed
}
