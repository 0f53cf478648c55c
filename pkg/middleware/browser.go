package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solargrid/solargrid-web/internal/session"
)

// Keys under which the middlewares publish values on the gin context.
const (
	ContextKeyBrowser = "browser_context"
	ContextKeyStore   = "session_store"
	ContextKeySession = "session"
)

// CookieOptions configures the browser context cookie.
type CookieOptions struct {
	Name   string
	Path   string
	Domain string
	Secure bool
	// MaxAge in seconds; 0 makes it a browser-session cookie.
	MaxAge int
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = "solargrid_ctx"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// BrowserContext identifies the browser by a random id kept in a cookie and
// binds the session Store of that browser for the rest of the chain.
func BrowserContext(repo session.Repository, opts CookieOptions) gin.HandlerFunc {
	opts = opts.withDefaults()
	return func(c *gin.Context) {
		id := ""
		if v, err := c.Cookie(opts.Name); err == nil {
			if parsed, err := uuid.Parse(v); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.Name, id, opts.MaxAge, opts.Path, opts.Domain, opts.Secure, true)
		}
		c.Set(ContextKeyBrowser, id)
		c.Set(ContextKeyStore, session.Bind(repo, id))
		c.Next()
	}
}

// BrowserID returns the id set by BrowserContext, or "".
func BrowserID(c *gin.Context) string {
	return c.GetString(ContextKeyBrowser)
}

// StoreFrom returns the Store bound by BrowserContext.
func StoreFrom(c *gin.Context) (session.Store, bool) {
	v, ok := c.Get(ContextKeyStore)
	if !ok {
		return nil, false
	}
	s, ok := v.(session.Store)
	return s, ok
}

// SessionFrom returns the Session read by RequireAuthentication.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}
