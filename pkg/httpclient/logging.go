package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests logs every round trip at debug level, and failed ones at warn
// level, through the logger carried by the request context.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			lg := zctx.From(req.Context()).With(
				zap.String("http.method", req.Method),
				zap.String("http.path", req.URL.Path),
				zap.Duration("duration", time.Since(start)),
			)
			if id := RequestIDFromContext(req.Context()); id != "" {
				lg = lg.With(zap.String("request_id", id))
			}
			switch {
			case err != nil:
				lg.Warn("Request failed", zap.Error(err))
			case resp.StatusCode >= http.StatusInternalServerError:
				lg.Warn("Request completed", zap.Int("http.status", resp.StatusCode))
			default:
				lg.Debug("Request completed", zap.Int("http.status", resp.StatusCode))
			}
			return resp, err
		})
	}
}
