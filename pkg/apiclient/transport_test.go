package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/pkg/apiclient"
)

func TestHTTPTransport_ResponseSizeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"under limit", strings.Repeat("a", 15), false},
		{"at limit", strings.Repeat("a", 16), false},
		{"over limit", strings.Repeat("a", 17), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			transport := apiclient.NewHTTPTransport(srv.Client(), apiclient.WithMaxResponseBytes(16))
			resp, err := transport.Do(context.Background(), &apiclient.TransportRequest{
				Method: http.MethodGet,
				URL:    srv.URL,
			})

			if tt.wantErr {
				assert.Nil(t, resp)
				require.ErrorIs(t, err, apiclient.ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(resp.Body))
		})
	}
}

func TestClient_OversizedResponseIsTransportError(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		secureJSON(w, http.StatusOK, `{"data":"`+strings.Repeat("x", 64)+`"}`)
	})

	client, err := apiclient.New(baseConfig(srv.URL),
		apiclient.WithTransport(apiclient.NewHTTPTransport(srv.Client(), apiclient.WithMaxResponseBytes(32))),
	)
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/big")
	assert.Nil(t, resp)
	require.ErrorIs(t, err, apiclient.ErrNetwork)
	require.ErrorIs(t, err, apiclient.ErrInvalidResponse)

	var transportErr *apiclient.TransportError
	assert.ErrorAs(t, err, &transportErr)
}
