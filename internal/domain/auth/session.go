package auth

import "github.com/go-faster/errors"

var (
	// ErrNoToken is returned when a session is built without a bearer token.
	ErrNoToken = errors.New("session token is required")
	// ErrSessionExpired is returned when the backend rejects the bearer token.
	// The staff member has to log in again.
	ErrSessionExpired = errors.New("session expired: log in again")
)

// Session holds the identity a staff member obtained at login. It is passed
// explicitly to the backend client; nothing reads the token from global state.
type Session struct {
	Token    string
	DealerID int64
	Username string
	Role     string
}

// Validate reports whether the session can authenticate backend calls.
func (s Session) Validate() error {
	if s.Token == "" {
		return ErrNoToken
	}
	if s.DealerID <= 0 {
		return errors.Errorf("invalid dealer id %d", s.DealerID)
	}
	return nil
}

// BearerToken returns the Authorization header value for the session.
func (s Session) BearerToken() string {
	return "Bearer " + s.Token
}
