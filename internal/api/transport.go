package api

import "net/http"

// UserIDHeader carries the session identity on every backend request.
const UserIDHeader = "X-User-ID"

// IdentitySource yields the current user id, or "" when signed out.
type IdentitySource interface {
	UserID() string
}

// SessionTransport stamps the current user id on each outgoing request.
// With no identity the request goes out unauthenticated and the backend
// decides what to do with it.
type SessionTransport struct {
	Base    http.RoundTripper
	Session IdentitySource
}

func (t *SessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	uid := ""
	if t.Session != nil {
		uid = t.Session.UserID()
	}
	if uid == "" {
		return base.RoundTrip(req)
	}

	out := req.Clone(req.Context())
	out.Header.Set(UserIDHeader, uid)
	return base.RoundTrip(out)
}
