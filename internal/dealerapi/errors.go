package dealerapi

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/evdealer-wizard/internal/domain/auth"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
)

// APIError is a non-2xx answer of the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend: %d: %s", e.Status, msg)
}

// responseError converts a failed response into an error. 401 always means
// the session expired.
func responseError(status int, body []byte) error {
	if status == http.StatusUnauthorized {
		return auth.ErrSessionExpired
	}
	apiErr := &APIError{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var reason string
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		apiErr.Message = truncate(string(body), 200)
		return apiErr
	}
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "code":
			v, err := decodeLooseString(d)
			apiErr.Code = v
			return err
		case "message":
			v, err := decodeLooseString(d)
			apiErr.Message = v
			return err
		case "error":
			v, err := decodeLooseString(d)
			reason = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		apiErr.Message = truncate(string(body), 200)
		return apiErr
	}
	if apiErr.Code == "" {
		apiErr.Code = reason
	}
	if apiErr.Message == "" {
		apiErr.Message = reason
	}
	return apiErr
}

// customerError maps a rejected customer create or update onto the customer
// validation taxonomy. Server failures and session expiry pass through.
func customerError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Status < 400 || apiErr.Status > 499 {
		return err
	}
	return customer.ClassifyRejection(apiErr.Code, apiErr.Message)
}

// isNotFound reports whether err is a 404 answer.
func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
