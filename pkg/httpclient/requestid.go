package httpclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request id.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID stores id in ctx. RequestID sends it instead of a generated
// one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request id from ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns a middleware that sends an X-Request-ID header on every
// request. A valid id from the context or an existing header is reused,
// otherwise a new UUID v4 is generated. Valid ids are at most 128 bytes of
// printable ASCII.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			id := req.Header.Get(HeaderRequestID)
			if !isValidRequestID(id) {
				id = RequestIDFromContext(req.Context())
			}
			if !isValidRequestID(id) {
				id = uuid.New().String()
			}

			ctx := WithRequestID(req.Context(), id)
			req = req.Clone(ctx)
			req.Header.Set(HeaderRequestID, id)
			return next.RoundTrip(req)
		})
	}
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
