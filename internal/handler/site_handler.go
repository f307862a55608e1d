package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	siteService service.SiteService
}

func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func (h *SiteHandler) RegisterRoutes(router *gin.RouterGroup) {
	sites := router.Group("/api/sites")
	{
		sites.GET("", middleware.RequirePermission("masters.read"), h.ListSites)
		sites.GET("/:id", middleware.RequirePermission("masters.read"), h.GetSite)
		sites.POST("", middleware.RequirePermission("masters.write"), h.CreateSite)
		sites.PUT("/:id", middleware.RequirePermission("masters.write"), h.UpdateSite)
		sites.DELETE("/:id", middleware.RequirePermission("masters.write"), h.DeleteSite)
	}
}

// ListSites returns paginated sites with optional search
// @Summary      List sites
// @Tags         sites
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        search  query     string  false  "Search by name or code"
// @Success      200     {object}  response.Response
// @Router       /api/sites [get]
func (h *SiteHandler) ListSites(c *gin.Context) {
	params := pagination.Parse(c)

	sites, total, err := h.siteService.GetSites(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, sites, params.Page, params.Limit, total))
}

// GetSite returns one site
// @Summary      Get site
// @Tags         sites
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  response.Response{data=service.SiteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sites/{id} [get]
func (h *SiteHandler) GetSite(c *gin.Context) {
	site, err := h.siteService.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

// CreateSite creates a new site
// @Summary      Create site
// @Tags         sites
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateSiteRequest  true  "Site payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/sites [post]
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	site, err := h.siteService.CreateSite(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, site))
}

// UpdateSite updates site fields
// @Summary      Update site
// @Tags         sites
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Site ID"
// @Param        payload  body  service.UpdateSiteRequest  true  "Site payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/sites/{id} [put]
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	var req service.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	site, err := h.siteService.UpdateSite(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

// DeleteSite soft-deletes a site
// @Summary      Delete site
// @Tags         sites
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/sites/{id} [delete]
func (h *SiteHandler) DeleteSite(c *gin.Context) {
	if err := h.siteService.DeleteSite(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "site deleted"}))
}
