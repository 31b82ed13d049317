package lottery

import (
	"github.com/bwmarrin/discordgo"

	"lotto/bot/common"
	"lotto/domain/interfaces"
)

// Feature handles the player-facing lottery commands: buying, refunding,
// listing and win-checking tickets. Every handler runs inside its own unit of
// work so a failed operation leaves the ledger untouched.
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
	payments   interfaces.PaymentGateway
	adminID    int64
}

func New(uowFactory interfaces.UnitOfWorkFactory, payments interfaces.PaymentGateway, adminID int64) *Feature {
	return &Feature{
		uowFactory: uowFactory,
		payments:   payments,
		adminID:    adminID,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand.")
		return
	}

	sub := options[0]
	switch sub.Name {
	case "buy":
		f.handleBuy(s, i, sub.Options)
	case "buymulti":
		f.handleBuyMulti(s, i, sub.Options)
	case "refund":
		f.handleRefund(s, i, sub.Options)
	case "refundall":
		f.handleRefundAll(s, i)
	case "tickets":
		f.handleTickets(s, i, sub.Options)
	case "check":
		f.handleCheck(s, i, sub.Options)
	case "status":
		f.handleStatus(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
