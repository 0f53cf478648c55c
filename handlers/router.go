package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/solargrid/solargrid-web/internal/session"
	"github.com/solargrid/solargrid-web/pkg/middleware"
)

// RouterConfig wires the browser context and the optional limiter applied to
// the anonymous login and signup submissions.
type RouterConfig struct {
	Repository  session.Repository
	Cookie      middleware.CookieOptions
	AuthLimiter gin.HandlerFunc
}

// NewRouter builds the screen tree. Every guarded branch nests the role gate
// inside the authentication gate.
func NewRouter(h *Handler, rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r, rc)
	return r
}

// Register mounts the screens on r.
func (h *Handler) Register(r *gin.Engine, rc RouterConfig) {
	repo := rc.Repository
	if repo == nil {
		repo = session.NewMemoryRepository()
	}
	screens := r.Group("/", middleware.BrowserContext(repo, rc.Cookie))

	anon := []gin.HandlerFunc{}
	if rc.AuthLimiter != nil {
		anon = append(anon, rc.AuthLimiter)
	}
	screens.GET(LoginPath, h.LoginPage)
	screens.POST(LoginPath, append(anon, h.Login)...)
	screens.GET(SignupPath, h.SignupPage)
	screens.POST(SignupPath, append(anon, h.Signup)...)
	screens.POST("/logout", h.Logout)

	authed := screens.Group("/", middleware.RequireAuthentication(LoginPath))
	authed.GET("/", h.Home)
	authed.GET(HomePath, h.Home)
	authed.GET(UnauthorizedPath, h.Unauthorized)

	userOnly := middleware.RequireRole(UnauthorizedPath, session.RoleUser)

	grids := authed.Group("/solargrid", userOnly)
	grids.GET("", h.ListSolarGrids)
	grids.GET("/new", h.NewSolarGridPage)
	grids.POST("/new", h.CreateSolarGrid)
	grids.GET("/edit", h.EditSolarGridPage)
	grids.POST("/edit", h.UpdateSolarGrid)
	grids.DELETE("/:id", h.DeleteSolarGrid)
	grids.POST("/simulate", h.LoadSimulation)

	profile := authed.Group("/profile", userOnly)
	profile.GET("", h.Profile)
	profile.GET("/edit", h.EditProfilePage)
	profile.POST("/edit", h.UpdateProfile)

	admin := authed.Group("/users", middleware.RequireRole(UnauthorizedPath, session.RoleAdmin))
	admin.GET("", h.ListUsers)
	admin.GET("/edit", h.EditUserPage)
	admin.POST("/edit", h.UpdateUser)
	admin.DELETE("/:id", h.DeleteUser)
}
