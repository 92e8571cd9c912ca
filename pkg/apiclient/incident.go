package apiclient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/guard/core/logger"
)

// IncidentType classifies a security incident.
type IncidentType string

const (
	IncidentForbiddenAccess   IncidentType = "FORBIDDEN_ACCESS"
	IncidentRateLimitExceeded IncidentType = "RATE_LIMIT_EXCEEDED"
)

// Incident records a server-side refusal worth auditing. Values are never
// modified after creation.
type Incident struct {
	ID        uuid.UUID    `json:"id"`
	Type      IncidentType `json:"type"`
	URL       string       `json:"url,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	UserAgent string       `json:"user_agent"`
}

// NewIncident creates an incident with a fresh ID.
func NewIncident(kind IncidentType, url, userAgent string, at time.Time) Incident {
	return Incident{
		ID:        uuid.New(),
		Type:      kind,
		URL:       url,
		Timestamp: at,
		UserAgent: userAgent,
	}
}

// IncidentSink receives incidents. Delivery is best-effort: the client logs
// a returned error and moves on.
type IncidentSink interface {
	Record(ctx context.Context, incident Incident) error
}

// IncidentSinkFunc adapts a function to IncidentSink.
type IncidentSinkFunc func(ctx context.Context, incident Incident) error

// Record implements IncidentSink.
func (f IncidentSinkFunc) Record(ctx context.Context, incident Incident) error {
	return f(ctx, incident)
}

// LogSink writes incidents to a logger at warn level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink writing to l.
func NewLogSink(l *slog.Logger) *LogSink {
	if l == nil {
		l = logger.Nop()
	}
	return &LogSink{logger: l}
}

// Record implements IncidentSink.
func (s *LogSink) Record(ctx context.Context, inc Incident) error {
	s.logger.WarnContext(ctx, "security incident",
		logger.Incident(string(inc.Type)),
		slog.String("incident_id", inc.ID.String()),
		logger.URL(inc.URL),
		logger.UserAgent(inc.UserAgent),
		slog.Time("at", inc.Timestamp),
	)
	return nil
}

// MultiSink fans an incident out to every sink. All sinks are tried; their
// errors are joined.
type MultiSink []IncidentSink

// Record implements IncidentSink.
func (m MultiSink) Record(ctx context.Context, inc Incident) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, inc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
