package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solargrid/solargrid-web/internal/guard"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/pkg/logger"
	"github.com/solargrid/solargrid-web/pkg/metrics"
)

// currentSession reads the Session from the bound Store on every call.
func currentSession(c *gin.Context) *session.Session {
	store, ok := StoreFrom(c)
	if !ok {
		logger.Warnf("guard: no session store bound for %s", c.Request.URL.Path)
		return nil
	}
	s, ok := store.Current(c.Request.Context())
	if !ok {
		return nil
	}
	return s
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

// RequireAuthentication lets the chain continue when the browser has a Session
// and publishes it under ContextKeySession. Otherwise it redirects to loginPath
// and the requested path is dropped.
func RequireAuthentication(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		d := guard.Authenticate(s)
		metrics.GuardDecisions.WithLabelValues(guard.GateAuthentication, d.String()).Inc()
		if d == guard.Redirected {
			logger.Debugf("guard: unauthenticated request to %s redirected to %s", c.Request.URL.Path, loginPath)
			redirect(c, loginPath)
			return
		}
		c.Set(ContextKeySession, s)
		c.Next()
	}
}

// RequireRole lets the chain continue when the Session holds at least one of
// roles. Meant to be nested inside RequireAuthentication; without a Session it
// also redirects to unauthorizedPath.
func RequireRole(unauthorizedPath string, roles ...string) gin.HandlerFunc {
	required := session.NewRoleSet(roles...)
	return func(c *gin.Context) {
		s, ok := SessionFrom(c)
		if !ok {
			s = currentSession(c)
		}
		d := guard.Authorize(s, required)
		metrics.GuardDecisions.WithLabelValues(guard.GateRole, d.String()).Inc()
		if d == guard.Redirected {
			logger.Debugf("guard: %s requires one of %v, redirected to %s", c.Request.URL.Path, []string(required), unauthorizedPath)
			redirect(c, unauthorizedPath)
			return
		}
		c.Next()
	}
}
