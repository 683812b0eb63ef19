package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/sync"
)

// AuditGateway is the single write path into the error audit trail. Every
// failure the engine tolerates goes through Record so nothing is silently
// dropped; handlers never append rows themselves.
type AuditGateway struct {
	records sync.ErrorRecordRepository
	logger  *zap.Logger
}

// NewAuditGateway creates the audit gateway
func NewAuditGateway(records sync.ErrorRecordRepository, logger *zap.Logger) *AuditGateway {
	return &AuditGateway{
		records: records,
		logger:  logger.Named("audit"),
	}
}

// Record logs and durably appends one audit row. If the append itself fails
// the failure is still visible in the log; the caller's control flow is not
// disturbed, since an audit write must never turn a skipped record into an
// aborted run.
func (g *AuditGateway) Record(ctx context.Context, record *sync.ErrorRecord) {
	fields := []zap.Field{
		zap.String("kind", string(record.Kind)),
		zap.String("entity_type", record.EntityType.String()),
		zap.String("remote_id", record.RemoteID),
		zap.String("message", record.Message),
	}
	if record.Detail != "" {
		fields = append(fields, zap.String("detail", record.Detail))
	}
	g.logger.Warn("Sync failure recorded", fields...)

	if err := g.records.Append(ctx, record); err != nil {
		g.logger.Error("Failed to append audit record",
			zap.String("kind", string(record.Kind)),
			zap.String("entity_type", record.EntityType.String()),
			zap.Error(err),
		)
	}
}

// List returns audit records for operator diagnosis
func (g *AuditGateway) List(ctx context.Context, filter sync.ErrorRecordFilter) ([]sync.ErrorRecord, int64, error) {
	return g.records.List(ctx, filter)
}

// CountSince counts audit records appended at or after t. Run status reports
// use it to reference the error records a run produced.
func (g *AuditGateway) CountSince(ctx context.Context, t time.Time) (int64, error) {
	return g.records.CountSince(ctx, t)
}
