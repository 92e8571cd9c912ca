package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dmitrymomot/guard/pkg/apiclient"
)

var (
	ErrEmptyURL     = errors.New("empty nats URL")
	ErrConnect      = errors.New("failed to connect to nats")
	ErrEmptySubject = errors.New("empty nats subject")
	ErrNotConnected = errors.New("nats connection is not established")
)

// Config holds connection and publishing settings, loaded from the
// environment.
type Config struct {
	URL           string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	Name          string        `env:"NATS_CLIENT_NAME" envDefault:"guard"`
	MaxReconnects int           `env:"NATS_MAX_RECONNECTS" envDefault:"10"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"1s"`
	Subject       string        `env:"NATS_INCIDENT_SUBJECT" envDefault:"guard.incidents"`
}

// Connect dials the server with reconnect settings from cfg.
func Connect(cfg Config) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return nil, errors.Join(ErrConnect, err)
	}
	return nc, nil
}

// Healthcheck returns a check that fails unless the connection is up and a
// server round trip succeeds.
func Healthcheck(nc *nats.Conn) func(context.Context) error {
	return func(ctx context.Context) error {
		if !nc.IsConnected() {
			return ErrNotConnected
		}
		return nc.FlushWithContext(ctx)
	}
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// IncidentPublisher publishes each incident as JSON to
// "<subject>.<type>", with the type lower-cased, so consumers can subscribe
// to "<subject>.>" or to a single type.
type IncidentPublisher struct {
	pub     Publisher
	subject string
}

var _ apiclient.IncidentSink = (*IncidentPublisher)(nil)

// NewIncidentPublisher creates a sink publishing under subject.
func NewIncidentPublisher(pub Publisher, subject string) (*IncidentPublisher, error) {
	subject = strings.Trim(subject, ". ")
	if subject == "" {
		return nil, ErrEmptySubject
	}
	return &IncidentPublisher{pub: pub, subject: subject}, nil
}

// Subject returns the subject an incident of kind is published to.
func (p *IncidentPublisher) Subject(kind apiclient.IncidentType) string {
	return p.subject + "." + strings.ToLower(string(kind))
}

// Record implements apiclient.IncidentSink.
func (p *IncidentPublisher) Record(ctx context.Context, inc apiclient.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("marshal incident: %w", err)
	}
	if err := p.pub.Publish(p.Subject(inc.Type), data); err != nil {
		return fmt.Errorf("publish incident %s: %w", inc.ID, err)
	}
	return nil
}
