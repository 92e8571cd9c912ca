package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/pkg/apiclient"
	"github.com/dmitrymomot/guard/pkg/securestorage"
)

var fixedNow = time.UnixMilli(1700000000000).UTC()

func fixedClock() time.Time { return fixedNow }

type received struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type recorder struct {
	mu   sync.Mutex
	reqs []received
}

func (r *recorder) add(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, received{Method: req.Method, Path: req.URL.Path, Header: req.Header.Clone(), Body: body})
}

func (r *recorder) all() []received {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]received(nil), r.reqs...)
}

func (r *recorder) last(t *testing.T) received {
	t.Helper()
	all := r.all()
	require.NotEmpty(t, all, "server received no requests")
	return all[len(all)-1]
}

// secureJSON writes body with every hardening header set.
func secureJSON(w http.ResponseWriter, status int, body string) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Strict-Transport-Security", "max-age=31536000")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newServer(t *testing.T, rec *recorder, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.add(r)
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	secureJSON(w, http.StatusOK, `{"ok":true}`)
}

func statusHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		secureJSON(w, status, body)
	}
}

func newStorage() *securestorage.Storage {
	return securestorage.New(securestorage.NewMemoryStore(), securestorage.StaticKey("test-key"))
}

func baseConfig(baseURL string) apiclient.Config {
	cfg := apiclient.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Environment = apiclient.EnvTest
	return cfg
}

type incidentCollector struct {
	ch chan apiclient.Incident
}

func newIncidentCollector() *incidentCollector {
	return &incidentCollector{ch: make(chan apiclient.Incident, 10)}
}

func (c *incidentCollector) Record(_ context.Context, inc apiclient.Incident) error {
	c.ch <- inc
	return nil
}

func (c *incidentCollector) next(t *testing.T) apiclient.Incident {
	t.Helper()
	select {
	case inc := <-c.ch:
		return inc
	case <-time.After(2 * time.Second):
		t.Fatal("no incident delivered")
		return apiclient.Incident{}
	}
}
