package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/observability"
)

// ProgressEvent is broadcast after a learning event changed an enrollment.
type ProgressEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Trigger       string    `json:"trigger"`
	StudentID     uint      `json:"student_id"`
	CourseID      uint      `json:"course_id"`
	Percentage    int       `json:"percentage"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ProgressPublisher hands progress events to downstream consumers.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, event ProgressEvent) error
}

type natsProgressPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSProgressPublisher publishes progress events on the given subject.
// A nil connection yields a publisher that drops events.
func NewNATSProgressPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) ProgressPublisher {
	if subject == "" {
		subject = "elearning.progress"
	}
	return &natsProgressPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "progress_publisher").Logger(),
	}
}

func (p *natsProgressPublisher) PublishProgress(ctx context.Context, event ProgressEvent) error {
	if p.conn == nil {
		observability.ProgressEvents().WithLabelValues("skipped").Inc()
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Type == "" {
		event.Type = "progress.recomputed"
	}
	if event.CorrelationID == "" {
		event.CorrelationID = middleware.CorrelationIDFromContext(ctx)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		observability.ProgressEvents().WithLabelValues("failed").Inc()
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		observability.ProgressEvents().WithLabelValues("failed").Inc()
		return err
	}

	observability.ProgressEvents().WithLabelValues("published").Inc()
	p.logger.Debug().
		Str("event_id", event.ID).
		Uint("student_id", event.StudentID).
		Uint("course_id", event.CourseID).
		Msg("progress event published")
	return nil
}
