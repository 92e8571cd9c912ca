package nats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/integration/messaging/nats"
	"github.com/dmitrymomot/guard/pkg/apiclient"
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []message
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, message{subject: subject, data: data})
	return nil
}

func TestNewIncidentPublisher_Subject(t *testing.T) {
	t.Parallel()

	_, err := nats.NewIncidentPublisher(&fakePublisher{}, " . ")
	require.ErrorIs(t, err, nats.ErrEmptySubject)

	p, err := nats.NewIncidentPublisher(&fakePublisher{}, "guard.incidents.")
	require.NoError(t, err)
	assert.Equal(t, "guard.incidents.forbidden_access", p.Subject(apiclient.IncidentForbiddenAccess))
	assert.Equal(t, "guard.incidents.rate_limit_exceeded", p.Subject(apiclient.IncidentRateLimitExceeded))
}

func TestIncidentPublisher_Record(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	p, err := nats.NewIncidentPublisher(pub, "guard.incidents")
	require.NoError(t, err)

	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	inc := apiclient.NewIncident(apiclient.IncidentRateLimitExceeded, "https://api.example.com/pay", "guard/1.0", at)
	require.NoError(t, p.Record(context.Background(), inc))

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "guard.incidents.rate_limit_exceeded", pub.msgs[0].subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &got))
	assert.Equal(t, inc.ID.String(), got["id"])
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", got["type"])
	assert.Equal(t, "https://api.example.com/pay", got["url"])
	assert.Equal(t, "guard/1.0", got["user_agent"])
	assert.Equal(t, "2024-05-06T07:08:09Z", got["timestamp"])
}

func TestIncidentPublisher_Errors(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	p, err := nats.NewIncidentPublisher(pub, "guard.incidents")
	require.NoError(t, err)

	inc := apiclient.NewIncident(apiclient.IncidentForbiddenAccess, "", "", time.Now())
	err = p.Record(context.Background(), inc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Record(ctx, inc), context.Canceled)
}

func TestConnect_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := nats.Connect(nats.Config{})
	require.ErrorIs(t, err, nats.ErrEmptyURL)
}
