// Package guard holds the route gate decisions shared by the web server and
// the CLI. Decisions are pure functions of the Session read at evaluation time.
package guard

import "github.com/solargrid/solargrid-web/internal/session"

// Decision is the outcome of a gate.
type Decision int

const (
	Allowed Decision = iota
	Redirected
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "redirected"
}

// Gate names, used as metric labels.
const (
	GateAuthentication = "authentication"
	GateRole           = "role"
)

// Authenticate allows when a Session is present.
func Authenticate(s *session.Session) Decision {
	if s == nil {
		return Redirected
	}
	return Allowed
}

// Authorize allows when s holds at least one of the required roles. A missing
// Session is redirected even though the authentication gate normally runs first.
func Authorize(s *session.Session, required session.RoleSet) Decision {
	if s == nil || !s.Roles.Intersects(required) {
		return Redirected
	}
	return Allowed
}
