package shared

import (
	"context"
	"log/slog"
	"net/http"

	"hrapp/internal/domain/audit"
	"hrapp/internal/platform/requestctx"
)

type Auditor interface {
	Record(ctx context.Context, e audit.Entry) error
}

// RecordAudit writes an audit entry for a completed change. Failures are
// logged and never fail the request.
func RecordAudit(r *http.Request, a Auditor, actorID, action, entityType, entityID string, after any) {
	if a == nil {
		return
	}
	requestID := requestctx.RequestID(r.Context())
	err := a.Record(r.Context(), audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ClientIP(r),
		After:      after,
	})
	if err != nil {
		slog.Warn("audit record failed", "action", action, "requestId", requestID, "err", err)
	}
}
