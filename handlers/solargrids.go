package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/solargrid"
	"github.com/solargrid/solargrid-web/pkg/middleware"
)

const gridListPath = "/solargrid"

// ListSolarGrids shows the grids of the signed-in user.
func (h *Handler) ListSolarGrids(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-list", "Solar Grids")
	grids, err := h.grids(c).ListByUser(c.Request.Context(), s.UserID)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = gin.H{"grids": grids}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) NewSolarGridPage(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-new", "Upload New Solar Grid")
	v.Data = gin.H{"grid": models.SolarGrid{}}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateSolarGrid(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-new", "Upload New Solar Grid")
	var g models.SolarGrid
	if err := c.ShouldBindJSON(&g); err != nil {
		renderBindingError(c, v, err)
		return
	}
	id, err := h.grids(c).Create(c.Request.Context(), g)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success(solargrid.NoticeCreated)
	v.Redirect = gridListPath
	v.Data = models.CommandResponse{ID: id}
	c.JSON(http.StatusCreated, v)
}

// EditSolarGridPage loads the grid named by ?id= into the edit form.
func (h *Handler) EditSolarGridPage(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-edit", "Edit Solar Grid")
	id, ok := queryID(c, "id")
	if !ok {
		v.Notices = errorNotices([]string{"id must be a positive number"})
		c.JSON(http.StatusBadRequest, v)
		return
	}
	g, err := h.grids(c).Get(c.Request.Context(), id)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = gin.H{"grid": g}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateSolarGrid(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-edit", "Edit Solar Grid")
	var g models.SolarGrid
	if err := c.ShouldBindJSON(&g); err != nil {
		renderBindingError(c, v, err)
		return
	}
	if _, err := h.grids(c).Update(c.Request.Context(), g); err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success(solargrid.NoticeUpdated)
	v.Redirect = gridListPath
	c.JSON(http.StatusOK, v)
}

// DeleteSolarGrid removes the grid and returns the refreshed list.
func (h *Handler) DeleteSolarGrid(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-list", "Solar Grids")
	id, ok := queryID(c, "id")
	if !ok {
		v.Notices = errorNotices([]string{"id must be a positive number"})
		c.JSON(http.StatusBadRequest, v)
		return
	}
	svc := h.grids(c)
	if err := svc.Delete(c.Request.Context(), id); err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success(solargrid.NoticeDeleted)
	grids, err := svc.ListByUser(c.Request.Context(), s.UserID)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Data = gin.H{"grids": grids}
	c.JSON(http.StatusOK, v)
}

// LoadSimulation forwards a batch of grids to the solar simulator.
func (h *Handler) LoadSimulation(c *gin.Context) {
	s, _ := middleware.SessionFrom(c)
	v := page(s, "solargrid-list", "Solar Grids")
	var batch []models.SimulationLoad
	if err := c.ShouldBindJSON(&batch); err != nil {
		renderBindingError(c, v, err)
		return
	}
	if len(batch) == 0 {
		v.Notices = errorNotices([]string{"at least one solar grid is required"})
		c.JSON(http.StatusBadRequest, v)
		return
	}
	report, err := h.grids(c).LoadSimulation(c.Request.Context(), batch)
	if err != nil {
		renderFailure(c, v, err)
		return
	}
	v.Notices = success("Simulation loaded")
	v.Data = gin.H{"report": report}
	c.JSON(http.StatusOK, v)
}
