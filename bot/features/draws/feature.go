package draws

import (
	"github.com/bwmarrin/discordgo"

	"lotto/bot/common"
	"lotto/domain/interfaces"
)

// Feature handles the draw commands: conducting a draw (administrator only)
// and reading back winning numbers.
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
	adminID    int64
}

func New(uowFactory interfaces.UnitOfWorkFactory, adminID int64) *Feature {
	return &Feature{
		uowFactory: uowFactory,
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
	case "conduct":
		f.handleConduct(s, i, sub.Options)
	case "numbers":
		f.handleNumbers(s, i)
	case "history":
		f.handleHistory(s, i, sub.Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
