package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event is one audit-trail entry. Recording is fire-and-forget: a sink
// must never fail the operation it describes.
type Event struct {
	Action   string
	UserID   uuid.UUID
	FilingID uuid.UUID
	Month    string
	Detail   string
}

type Sink interface {
	Record(ctx context.Context, event Event)
}

// LogSink writes audit events as structured log lines.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Record(_ context.Context, event Event) {
	entry := s.log.Info().
		Str("action", event.Action).
		Str("user_id", event.UserID.String())
	if event.FilingID != uuid.Nil {
		entry = entry.Str("filing_id", event.FilingID.String())
	}
	if event.Month != "" {
		entry = entry.Str("month", event.Month)
	}
	if event.Detail != "" {
		entry = entry.Str("detail", event.Detail)
	}
	entry.Msg("audit event")
}
