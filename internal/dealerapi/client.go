// Package dealerapi is the REST client of the dealer order backend. It
// implements the customer, order, catalog and promotion repositories.
package dealerapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/evdealer-wizard/internal/domain/auth"
)

// maxBodySize limits how much of a response body is read.
const maxBodySize = 8 << 20

// Client performs authenticated calls against the backend. Every call
// carries the bearer token of the session it was created with.
type Client struct {
	base    *url.URL
	client  *http.Client
	session auth.Session
}

// NewClient creates a Client for the backend at baseURL. A nil httpClient
// means http.DefaultClient.
func NewClient(baseURL string, session auth.Session, httpClient *http.Client) (*Client, error) {
	if err := session.Validate(); err != nil {
		return nil, errors.Wrap(err, "session")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: u, client: httpClient, session: session}, nil
}

// Session returns the session the client authenticates with.
func (c *Client) Session() auth.Session {
	return c.session
}

// do sends a request and decodes a successful response body with decode.
// path is already escaped. A nil body sends no payload; a nil decode ignores
// the response body.
func (c *Client) do(ctx context.Context, method, path string, body []byte, decode func(d *jx.Decoder) error) error {
	u := *c.base
	rawPath := u.EscapedPath() + path
	p, err := url.PathUnescape(rawPath)
	if err != nil {
		return errors.Wrap(err, "unescape path")
	}
	u.Path, u.RawPath = p, rawPath

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.session.BearerToken())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, data)
	}
	if decode == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := decode(jx.DecodeBytes(data)); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
