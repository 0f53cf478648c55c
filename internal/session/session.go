package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Role names issued by the backend.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// ErrInvalidSession is returned when a Session lacks a token or roles.
var ErrInvalidSession = errors.New("invalid session")

// RoleSet is a normalized (trimmed, deduplicated, sorted) set of role names.
// It marshals as a plain JSON array.
type RoleSet []string

// NewRoleSet builds a RoleSet from raw role names. Blank names are dropped.
func NewRoleSet(roles ...string) RoleSet {
	seen := make(map[string]struct{}, len(roles))
	out := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Has reports whether role is a member of the set.
func (rs RoleSet) Has(role string) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one role.
// Membership is by exact name; there is no role hierarchy.
func (rs RoleSet) Intersects(other RoleSet) bool {
	for _, r := range other {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

func (rs RoleSet) Empty() bool { return len(rs) == 0 }

// Profile holds display attributes. Nothing in it is used for authorization.
type Profile struct {
	Username  string `json:"username" bson:"username"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
}

// DisplayName returns the full name when known, the username otherwise.
func (p Profile) DisplayName() string {
	full := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if full != "" {
		return full
	}
	return p.Username
}

// Session is the record of who is logged in within one browser context.
type Session struct {
	Token     string    `json:"token" bson:"token"`
	UserID    int64     `json:"userId" bson:"userId"`
	Roles     RoleSet   `json:"roles" bson:"roles"`
	Profile   Profile   `json:"profile" bson:"profile"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// New builds and validates a Session from a successful login.
func New(token string, userID int64, roles []string, profile Profile) (*Session, error) {
	s := &Session{
		Token:     strings.TrimSpace(token),
		UserID:    userID,
		Roles:     NewRoleSet(roles...),
		Profile:   profile,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the invariants every stored Session must satisfy.
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrInvalidSession)
	}
	if s.Token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidSession)
	}
	if s.Roles.Empty() {
		return fmt.Errorf("%w: no roles", ErrInvalidSession)
	}
	return nil
}

// Clone returns a deep copy so callers never share the role slice with a store.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Roles = append(RoleSet(nil), s.Roles...)
	return &c
}
