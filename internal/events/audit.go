package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskdeck/internal/platform/logger"
)

// AuditLogHandler writes one structured log line per task change.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates an AuditLogHandler.
func NewAuditLogHandler(l *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: l.With("component", "task_audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("task_id", event.TaskID),
	}
	if event.Bucket != "" {
		attrs = append(attrs, slog.String("bucket", event.Bucket))
	}
	if len(event.Payload) > 0 {
		var change TaskChange
		if err := event.UnmarshalPayload(&change); err != nil {
			h.logger.WarnContext(ctx, "failed to decode task event payload",
				slog.String("event_id", event.ID.String()),
				slog.String("error", err.Error()))
		} else {
			attrs = appendIfSet(attrs, "status", change.Status)
			attrs = appendIfSet(attrs, "project_name", change.ProjectName)
			attrs = appendIfSet(attrs, "from_bucket", change.FromBucket)
		}
	}
	if id := logger.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}

	h.logger.InfoContext(ctx, "task changed", attrs...)
	return nil
}

func appendIfSet(attrs []any, key, value string) []any {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}
