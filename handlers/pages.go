package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solargrid/solargrid-web/pkg/middleware"
)

func (h *Handler) Home(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "home", "Home")
	if s != nil {
		v.Data = gin.H{"greeting": "Welcome, " + s.Profile.DisplayName()}
	}
	c.JSON(http.StatusOK, v)
}

// Unauthorized is where the role gate sends sessions lacking a required role.
func (h *Handler) Unauthorized(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "unauthorized", "Unauthorized")
	v.Data = gin.H{"message": "You do not have access to the requested page."}
	c.JSON(http.StatusOK, v)
}
