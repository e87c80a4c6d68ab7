package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// RunEvent describes one lifecycle transition of an evaluation run.
type RunEvent struct {
	RunID        string    `json:"run_id"`
	CourseID     int64     `json:"course_id"`
	AssignmentID int64     `json:"assignment_id"`
	Stage        string    `json:"stage"`
	Status       string    `json:"status"`
	At           time.Time `json:"at"`
}

// RunEventPublisher broadcasts run lifecycle events. Publishing is
// fire-and-forget; a broker outage never fails a run.
type RunEventPublisher interface {
	Publish(ctx context.Context, event RunEvent)
}

type natsRunEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewRunEventPublisher builds a NATS-backed publisher. A nil connection
// yields a no-op publisher so eventing stays optional.
func NewRunEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) RunEventPublisher {
	if conn == nil {
		return nopRunEventPublisher{}
	}

	if subject == "" {
		subject = "evalio.runs"
	}

	return &natsRunEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "run_event_publisher").Logger(),
	}
}

func (p *natsRunEventPublisher) Publish(_ context.Context, event RunEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to marshal run event")
		return
	}

	if err := p.conn.Publish(p.subject+"."+event.Stage, payload); err != nil {
		p.logger.Warn().Err(err).Str("stage", event.Stage).Msg("failed to publish run event")
	}
}

type nopRunEventPublisher struct{}

func (nopRunEventPublisher) Publish(context.Context, RunEvent) {}
