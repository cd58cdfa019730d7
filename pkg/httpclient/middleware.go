// Package httpclient provides client-side HTTP middleware built on
// http.RoundTripper: request ids, fixed headers, request logging and
// OpenTelemetry instrumentation.
package httpclient

import (
	"net/http"
)

// Middleware wraps a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Wrap applies middlewares to rt. The first middleware sees the request
// first.
func Wrap(rt http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// SetHeader sets a fixed header on every request that does not carry it yet.
func SetHeader(key, value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if value == "" || req.Header.Get(key) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(key, value)
			return next.RoundTrip(req)
		})
	}
}

// UserAgent sets the User-Agent header.
func UserAgent(ua string) Middleware {
	return SetHeader("User-Agent", ua)
}
