package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/pkg/middleware"
)

func (h *Handler) Profile(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "profile", "Profile")
	u, err := h.users(c).Profile(c.Request.Context(), h.store(c))
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = gin.H{"user": u}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) EditProfilePage(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "profile-edit", "Edit Profile")
	u, err := h.users(c).Profile(c.Request.Context(), h.store(c))
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = gin.H{"user": u}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "profile-edit", "Edit Profile")
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, v, err)
		return
	}
	store := h.store(c)
	if _, err := h.users(c).UpdateProfile(c.Request.Context(), store, req); err != nil {
		renderFailure(c, v, err)
		return
	}
	// the sidebar shows the new name straight away
	if fresh, ok := store.Current(c.Request.Context()); ok {
		v = page(fresh, "profile-edit", "Edit Profile")
	}
	v.Notices = success("Profile updated successfully")
	v.Redirect = "/profile"
	c.JSON(http.StatusOK, v)
}

// ListUsers is the admin listing. Query: page (zero-based), size.
func (h *Handler) ListUsers(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "users-list", "Users")
	pageNo, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	p, err := h.users(c).List(c.Request.Context(), pageNo, size)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = p
	c.JSON(http.StatusOK, v)
}

func (h *Handler) EditUserPage(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "users-edit", "Edit User")
	id, ok := queryID(c, "id")
	if !ok {
		v.Notices = errorNotices([]string{"id must be a positive number"})
		c.JSON(http.StatusBadRequest, v)
		return
	}
	u, err := h.users(c).Get(c.Request.Context(), id)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = gin.H{"user": u}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "users-edit", "Edit User")
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, v, err)
		return
	}
	if req.ID <= 0 {
		v.Notices = errorNotices([]string{"id must not be null"})
		c.JSON(http.StatusBadRequest, v)
		return
	}
	if _, err := h.users(c).Update(c.Request.Context(), req); err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success("User updated successfully")
	v.Redirect = "/users"
	c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "users-list", "Users")
	id, ok := queryID(c, "id")
	if !ok {
		v.Notices = errorNotices([]string{"id must be a positive number"})
		c.JSON(http.StatusBadRequest, v)
		return
	}
	if err := h.users(c).Delete(c.Request.Context(), id); err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success("User deleted successfully")
	v.Redirect = "/users"
	c.JSON(http.StatusOK, v)
}
