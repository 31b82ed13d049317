package infrastructure

import (
	"context"
	"encoding/json"

	"lotto/domain/events"
	"lotto/repository"

	log "github.com/sirupsen/logrus"
)

// AuditRecorder subscribes to the committed-event stream and appends every
// event to the durable audit trail. Recording is best effort: the ledger has
// already committed, so a failed insert is logged rather than propagated.
type AuditRecorder struct {
	auditLog *repository.AuditLogRepository
}

// NewAuditRecorder creates a new audit recorder
func NewAuditRecorder(auditLog *repository.AuditLogRepository) *AuditRecorder {
	return &AuditRecorder{auditLog: auditLog}
}

// Attach subscribes the recorder to every event type on the bus.
func (r *AuditRecorder) Attach(bus *Bus) {
	bus.SubscribeAll(r.handle)
}

func (r *AuditRecorder) handle(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("failed to marshal event for audit trail")
		return
	}

	entry := &repository.AuditEntry{
		EventType: string(event.Type()),
		OwnerID:   ownerOf(event),
		Payload:   payload,
	}
	if err := r.auditLog.Record(ctx, entry); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("failed to record event in audit trail")
	}
}

// ownerOf extracts the owner id from owner-scoped events.
func ownerOf(event events.Event) *int64 {
	switch e := event.(type) {
	case events.TicketsPurchasedEvent:
		return &e.OwnerID
	case events.TicketRefundedEvent:
		return &e.OwnerID
	case events.TicketsRefundedEvent:
		return &e.OwnerID
	default:
		return nil
	}
}
