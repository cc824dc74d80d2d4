package events

import (
	"log/slog"

	"landchain/core/types"
)

// LogEmitter mirrors every event into the structured log. Events that expose
// a typed attribute map get their attributes flattened onto the log line.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit implements the Emitter interface.
func (l LogEmitter) Emit(evt Event) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.String("type", evt.EventType())}
	if detailed, ok := evt.(interface{ Event() *types.Event }); ok {
		if payload := detailed.Event(); payload != nil {
			for key, value := range payload.Attributes {
				attrs = append(attrs, slog.String(key, value))
			}
		}
	}
	logger.Info("event", attrs...)
}
