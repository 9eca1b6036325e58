package audit

import (
	"context"
	"encoding/json"

	"github.com/savionray/content-lab/pkg/observability"
)

// TieredLogger attempts a durable write first and re-routes the event to the
// structured application log when that fails. Its Log never returns an
// error: a logging failure must not mask or override the pipeline's actual
// security decision, so audit intent is preserved best-effort instead of
// propagating.
type TieredLogger struct {
	primary Logger
	log     *observability.Logger
	metrics *observability.Metrics
}

// NewTieredLogger creates a two-tier audit logger. primary may be nil, in
// which case every event goes straight to the fallback log sink.
func NewTieredLogger(primary Logger, log *observability.Logger, metrics *observability.Metrics) *TieredLogger {
	return &TieredLogger{
		primary: primary,
		log:     log,
		metrics: metrics,
	}
}

// Log writes the event durably, falling back to the application log
func (l *TieredLogger) Log(ctx context.Context, event *Event) error {
	if l.primary != nil {
		err := l.primary.Log(ctx, event)
		if err == nil {
			if l.metrics != nil {
				l.metrics.AuditWritesTotal.WithLabelValues("durable").Inc()
			}
			return nil
		}
		l.log.WithError(err).Warn("durable audit write failed, falling back to log sink")
		if l.metrics != nil {
			l.metrics.AuditFallbackTotal.Inc()
		}
	}

	l.logFallback(event)
	if l.metrics != nil {
		l.metrics.AuditWritesTotal.WithLabelValues("fallback").Inc()
	}
	return nil
}

func (l *TieredLogger) logFallback(event *Event) {
	fields := map[string]interface{}{
		"audit_id":        event.ID,
		"request_id":      event.RequestID,
		"user_id":         event.UserID,
		"organization_id": event.OrganizationID,
		"action":          string(event.Action),
		"resource":        event.Resource,
		"method":          event.Method,
		"ip_address":      event.IPAddress,
		"success":         event.Success,
	}
	if event.ErrorMessage != "" {
		fields["error_message"] = event.ErrorMessage
	}
	if event.Metadata != nil {
		if data, err := json.Marshal(event.Metadata); err == nil {
			fields["metadata"] = string(data)
		}
	}
	l.log.WithFields(fields).Info("security audit event")
}

// Close closes the primary sink
func (l *TieredLogger) Close() error {
	if l.primary != nil {
		return l.primary.Close()
	}
	return nil
}
