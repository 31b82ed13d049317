package admin

import (
	"github.com/bwmarrin/discordgo"

	"lotto/bot/common"
	"lotto/domain/interfaces"
	"lotto/infrastructure"
	"lotto/repository"
)

// Feature handles the administrator surface: ledger settings, the
// reverse-index reconciliation scans, the treasury overview and the durable
// audit trail. The services enforce the administrator gate; this layer only
// shapes input and output.
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
	payments   interfaces.PaymentGateway
	treasury   *infrastructure.Treasury
	auditLog   *repository.AuditLogRepository // nil when no database is configured
	adminID    int64
}

func New(
	uowFactory interfaces.UnitOfWorkFactory,
	payments interfaces.PaymentGateway,
	treasury *infrastructure.Treasury,
	auditLog *repository.AuditLogRepository,
	adminID int64,
) *Feature {
	return &Feature{
		uowFactory: uowFactory,
		payments:   payments,
		treasury:   treasury,
		auditLog:   auditLog,
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
	case "setprice":
		f.handleSetPrice(s, i, sub.Options)
	case "setlock":
		f.handleSetLock(s, i, sub.Options)
	case "scan":
		f.handleScan(s, i, sub.Options)
	case "view":
		f.handleView(s, i, sub.Options)
	case "treasury":
		f.handleTreasury(s, i)
	case "audit":
		f.handleAudit(s, i, sub.Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
