// Package notify delivers user notices emitted after annotation saves.
package notify

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/pkg/ctxutil"
)

// LogNotifier writes notices to the structured log. The REST layer returns the
// same notices in the save response for the viewer to display.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "notifier")}
}

// Notify logs n at a level matching its severity.
func (n *LogNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	level := slog.LevelInfo
	if notice.Severity == domain.NoticeSeverityWarning {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("kind", string(notice.Kind)),
		slog.String("title", notice.Title),
		slog.String("body", notice.Body),
	}
	attrs = append(attrs, ctxutil.LogAttrs(ctx)...)

	n.log.LogAttrs(ctx, level, "user notice", attrs...)
	return nil
}
