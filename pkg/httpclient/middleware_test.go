package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureTransport records the last request and answers 200.
type captureTransport struct {
	last *http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.last = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       http.NoBody,
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func newRequest(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://backend.test/api/customers", nil)
	require.NoError(t, err)
	return req
}

func TestWrap_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}

	rt := Wrap(&captureTransport{}, mark("first"), mark("second"))
	_, err := rt.RoundTrip(newRequest(t, context.Background()))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		ctxID    string
		wantSame string
	}{
		{name: "generated"},
		{name: "header reused", header: "req-123", wantSame: "req-123"},
		{name: "context reused", ctxID: "ctx-456", wantSame: "ctx-456"},
		{name: "invalid header replaced", header: "bad\x01id"},
		{name: "too long header replaced", header: strings.Repeat("a", 129)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctxID != "" {
				ctx = WithRequestID(ctx, tt.ctxID)
			}
			req := newRequest(t, ctx)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}

			capture := &captureTransport{}
			_, err := Wrap(capture, RequestID()).RoundTrip(req)
			require.NoError(t, err)

			got := capture.last.Header.Get(HeaderRequestID)
			if tt.wantSame != "" {
				assert.Equal(t, tt.wantSame, got)
			} else {
				_, perr := uuid.Parse(got)
				assert.NoError(t, perr, "expected a UUID, got %q", got)
			}
			assert.Equal(t, got, RequestIDFromContext(capture.last.Context()))
		})
	}
}

func TestUserAgent_KeepsExplicitHeader(t *testing.T) {
	capture := &captureTransport{}
	rt := Wrap(capture, UserAgent("order-wizard/1"))

	_, err := rt.RoundTrip(newRequest(t, context.Background()))
	require.NoError(t, err)
	assert.Equal(t, "order-wizard/1", capture.last.Header.Get("User-Agent"))

	req := newRequest(t, context.Background())
	req.Header.Set("User-Agent", "custom")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "custom", capture.last.Header.Get("User-Agent"))
}

func TestNew_EndToEnd(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(Config{
		UserAgent: "order-wizard/test",
	})
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "order-wizard/test", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get(HeaderRequestID))
}
