package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/auth"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/internal/solargrid"
	"github.com/solargrid/solargrid-web/internal/users"
	"github.com/solargrid/solargrid-web/pkg/logger"
	"github.com/solargrid/solargrid-web/pkg/middleware"
)

// Screen paths used by the guards and redirects.
const (
	LoginPath        = "/login"
	SignupPath       = "/signup"
	HomePath         = "/home"
	UnauthorizedPath = "/unauthorized"
)

// Handler holds dependencies shared by every screen. Per-request services are
// built from the client bound to the browser's Store.
type Handler struct {
	client *apiclient.Client
	auth   *auth.Service
}

func NewHandler(client *apiclient.Client) *Handler {
	return &Handler{client: client, auth: auth.NewService(client)}
}

func (h *Handler) store(c *gin.Context) session.Store {
	if s, ok := middleware.StoreFrom(c); ok {
		return s
	}
	// without BrowserContext nothing is ever remembered
	logger.Warnf("handlers: no browser context on %s", c.Request.URL.Path)
	return session.NewMemoryStore()
}

func (h *Handler) grids(c *gin.Context) *solargrid.Service {
	return solargrid.NewService(h.client.Bind(h.store(c)))
}

func (h *Handler) users(c *gin.Context) *users.Service {
	return users.NewService(users.NewAPIUserRepository(h.client.Bind(h.store(c))))
}

// LoginPage renders the login form. A browser that already has a Session is
// told where to go instead.
func (h *Handler) LoginPage(c *gin.Context) {
	v := View{Page: "login", Title: "Login"}
	if _, ok := h.store(c).Current(c.Request.Context()); ok {
		v.Redirect = HomePath
	}
	c.JSON(http.StatusOK, v)
}

// Login posts the credentials anonymously and saves the resulting Session.
func (h *Handler) Login(c *gin.Context) {
	v := View{Page: "login", Title: "Login"}
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, v, err)
		return
	}
	sess, err := h.auth.Login(c.Request.Context(), h.store(c), req)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v = page(sess, "login", "Login")
	v.Redirect = HomePath
	c.JSON(http.StatusOK, v)
}

func (h *Handler) SignupPage(c *gin.Context) {
	c.JSON(http.StatusOK, View{Page: "signup", Title: "Sign Up"})
}

// Signup registers the account and sends the browser to the login screen.
func (h *Handler) Signup(c *gin.Context) {
	v := View{Page: "signup", Title: "Sign Up"}
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, v, err)
		return
	}
	res, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success("Account created, please log in")
	v.Redirect = LoginPath
	v.Data = res
	c.JSON(http.StatusCreated, v)
}

// Logout clears the Session and navigates to the login screen.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), h.store(c)); err != nil {
		logger.Errorf("logout failed for context %s: %v", middleware.BrowserID(c), err)
		c.JSON(http.StatusInternalServerError, View{Page: "logout", Notices: errorNotices([]string{"logout failed"})})
		return
	}
	c.Redirect(http.StatusSeeOther, LoginPath)
}
