package model

// Caller is the authenticated identity a request acts on behalf of.
// The HTTP layer builds it from the verified token; services never look up
// the session themselves.
type Caller struct {
	UserID string
}

// Anonymous is the zero Caller, used when a route allows unauthenticated access.
var Anonymous = Caller{}

// IsAuthenticated reports whether the caller carries a user id.
func (c Caller) IsAuthenticated() bool {
	return c.UserID != ""
}
