package lottery

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"lotto/bot/common"
	"lotto/domain/entities"
)

const (
	colorPrimary = 0x5865F2 // Discord blurple
	colorSuccess = 0x57F287
	colorNeutral = 0x99AAB5
)

// buildTicketsEmbed creates one page of the caller's ticket list
func buildTicketsEmbed(displayName string, tickets []*entities.Ticket, total, refundable, page int, settings *entities.Settings) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🎟️ Tickets for %s", displayName),
		Color:     colorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(tickets) == 0 {
		embed.Description = "No tickets on this page."
	} else {
		var lines []string
		for _, ticket := range tickets {
			lines = append(lines, fmt.Sprintf("**#%d** %s — bought %s",
				ticket.ID,
				common.FormatNumbers(ticket.Numbers),
				common.FormatDiscordTimestamp(ticket.PurchasedAt, "R")))
		}
		embed.Description = strings.Join(lines, "\n")
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Held",
			Value:  fmt.Sprintf("%d", total),
			Inline: true,
		},
		{
			Name:   "Refundable now",
			Value:  fmt.Sprintf("%d", refundable),
			Inline: true,
		},
		{
			Name:   "Refund value",
			Value:  fmt.Sprintf("%s bits each", common.FormatAmount(settings.NetPrice())),
			Inline: true,
		},
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d", page),
	}

	return embed
}

// buildWinCheckEmbed creates the win check result for one page of tickets
func buildWinCheckEmbed(displayName string, results []*entities.WinResult, draw *entities.Draw, page int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🎯 Win check for %s", displayName),
		Color:     colorSuccess,
		Timestamp: time.Now().Format(time.RFC3339),
		Description: fmt.Sprintf("Period **%d** drew %s on %s\n",
			draw.Period,
			common.FormatNumbers(draw.Numbers),
			common.FormatDiscordTimestamp(draw.DrawnAt, "f")),
	}

	if len(results) == 0 {
		embed.Description += "\nNo tickets on this page."
		return embed
	}

	var lines []string
	for _, result := range results {
		switch {
		case !result.Eligible:
			lines = append(lines, fmt.Sprintf("**#%d** %s — bought after the draw",
				result.TicketID, common.FormatNumbers(result.Numbers)))
		case result.MatchCount == 0:
			lines = append(lines, fmt.Sprintf("**#%d** %s — no matches",
				result.TicketID, common.FormatNumbers(result.Numbers)))
		default:
			lines = append(lines, fmt.Sprintf("**#%d** %s — **%d** matched (%s)",
				result.TicketID, common.FormatNumbers(result.Numbers),
				result.MatchCount, common.FormatNumbers(result.MatchedNumbers)))
		}
	}
	embed.Description += "\n" + strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d", page),
	}

	return embed
}

// buildStatusEmbed creates the public ledger status overview
func buildStatusEmbed(settings *entities.Settings, period int64, latest *entities.Draw, totalIssued int64, active int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🎰 Lottery status",
		Color:     colorNeutral,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Ticket price",
				Value:  fmt.Sprintf("%s bits", common.FormatAmount(settings.TicketPrice)),
				Inline: true,
			},
			{
				Name:   "Refund lock",
				Value:  common.FormatDuration(settings.LockDuration),
				Inline: true,
			},
			{
				Name:   "Current period",
				Value:  fmt.Sprintf("%d", period),
				Inline: true,
			},
			{
				Name:   "Tickets issued",
				Value:  fmt.Sprintf("%d", totalIssued),
				Inline: true,
			},
			{
				Name:   "Tickets live",
				Value:  fmt.Sprintf("%d", active),
				Inline: true,
			},
		},
	}

	if latest != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Last draw (period %d)", latest.Period),
			Value: fmt.Sprintf("%s — %s",
				common.FormatNumbers(latest.Numbers),
				common.FormatDiscordTimestamp(latest.DrawnAt, "f")),
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Last draw",
			Value: "No draw completed yet",
		})
	}

	return embed
}
