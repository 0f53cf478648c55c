package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/internal/users"
	"github.com/solargrid/solargrid-web/pkg/logger"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is one snackbar line.
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type NavItem struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	Method string `json:"method,omitempty"`
}

type NavSection struct {
	Title string    `json:"title"`
	Items []NavItem `json:"items"`
}

type ViewUser struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
}

// View is the JSON document every screen renders to.
type View struct {
	Page     string       `json:"page"`
	Title    string       `json:"title"`
	User     *ViewUser    `json:"user,omitempty"`
	Nav      []NavSection `json:"nav,omitempty"`
	Notices  []Notice     `json:"notices,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
	Data     any          `json:"data,omitempty"`
}

// Sidebar builds the navigation for s. The admin section is listed only for
// ROLE_ADMIN; logout is always present.
func Sidebar(s *session.Session) []NavSection {
	nav := []NavSection{{Title: "MAIN", Items: []NavItem{{Title: "Home", Path: "/home"}}}}
	if s != nil && s.Roles.Has(session.RoleAdmin) {
		nav = append(nav, NavSection{Title: "ADMIN", Items: []NavItem{{Title: "Users", Path: "/users"}}})
	}
	nav = append(nav, NavSection{Title: "USER", Items: []NavItem{
		{Title: "Solar Grids", Path: "/solargrid"},
		{Title: "Profile", Path: "/profile"},
		{Title: "Logout", Path: "/logout", Method: http.MethodPost},
	}})
	return nav
}

func viewUser(s *session.Session) *ViewUser {
	if s == nil {
		return nil
	}
	return &ViewUser{
		ID:          s.UserID,
		Username:    s.Profile.Username,
		DisplayName: s.Profile.DisplayName(),
		Roles:       append([]string(nil), s.Roles...),
	}
}

// page fills the session-derived parts of a View for a guarded screen.
func page(s *session.Session, name, title string) View {
	return View{Page: name, Title: title, User: viewUser(s), Nav: Sidebar(s)}
}

func success(text string) []Notice {
	return []Notice{{Level: LevelSuccess, Text: text}}
}

func errorNotices(lines []string) []Notice {
	out := make([]Notice, 0, len(lines))
	for _, l := range lines {
		out = append(out, Notice{Level: LevelError, Text: l})
	}
	return out
}

// failureStatus maps a call failure to the status of the rendered view. A
// failure without an HTTP response becomes 502.
func failureStatus(err error) int {
	if errors.Is(err, users.ErrNotLoggedIn) {
		return http.StatusUnauthorized
	}
	if code := apiclient.StatusCode(err); code != 0 {
		return code
	}
	return http.StatusBadGateway
}

// renderFailure shows err as notices on v. Backend failures are always
// caught here and never escape the handler.
func renderFailure(c *gin.Context, v View, err error) {
	logger.Debugf("handlers: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	v.Notices = append(v.Notices, errorNotices(apiclient.Notices(err))...)
	c.JSON(failureStatus(err), v)
}

var validationMessages = map[string]string{
	"required": "must not be blank",
	"email":    "must be a well-formed email address",
}

// bindingNotices turns request binding errors into "field message" notices,
// the same shape the backend uses for its validation array.
func bindingNotices(err error) []Notice {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorNotices([]string{"invalid request body"})
	}
	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			switch fe.Tag() {
			case "min":
				msg = fmt.Sprintf("size must be at least %s", fe.Param())
			case "max":
				msg = fmt.Sprintf("size must be at most %s", fe.Param())
			default:
				msg = "is invalid"
			}
		}
		lines = append(lines, apiclient.FieldError{Field: lowerFirst(fe.Field()), Message: msg}.String())
	}
	return errorNotices(lines)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func renderBindingError(c *gin.Context, v View, err error) {
	v.Notices = append(v.Notices, bindingNotices(err)...)
	c.JSON(http.StatusBadRequest, v)
}

func queryID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		raw = strings.TrimSpace(c.Param(name))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
