package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/shared"
)

// AuditLogHandler writes an audit line for every domain event. It is
// registered as a wildcard handler so new event types are covered
// automatically.
type AuditLogHandler struct {
	logger *zap.Logger
}

func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the handler receives all events
func (h *AuditLogHandler) EventTypes() []string { return nil }

var _ shared.EventHandler = (*AuditLogHandler)(nil)
