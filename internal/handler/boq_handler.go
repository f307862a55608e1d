package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BOQHandler struct {
	boqService service.BOQService
}

func NewBOQHandler(boqService service.BOQService) *BOQHandler {
	return &BOQHandler{boqService: boqService}
}

func (h *BOQHandler) RegisterRoutes(router *gin.RouterGroup) {
	boqs := router.Group("/api/boqs")
	{
		boqs.GET("", middleware.RequirePermission("boqs.read"), h.ListBOQs)
		boqs.GET("/:id", middleware.RequirePermission("boqs.read"), h.GetBOQ)
		boqs.POST("", middleware.RequirePermission("boqs.write"), h.CreateBOQ)
		boqs.PUT("/:id", middleware.RequirePermission("boqs.write"), h.UpdateBOQ)
		boqs.DELETE("/:id", middleware.RequirePermission("boqs.write"), h.DeleteBOQ)
	}
}

// ListBOQs returns paginated bills of quantities, optionally filtered by site
// @Summary      List BOQs
// @Tags         boqs
// @Security     BearerAuth
// @Produce      json
// @Param        page     query     int     false  "Page number (default: 1)"
// @Param        limit    query     int     false  "Items per page (default: 20)"
// @Param        site_id  query     string  false  "Filter by site"
// @Success      200      {object}  response.Response
// @Router       /api/boqs [get]
func (h *BOQHandler) ListBOQs(c *gin.Context) {
	params := pagination.Parse(c)

	boqs, total, err := h.boqService.GetBOQs(c.Request.Context(), c.Query("site_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, boqs, params.Page, params.Limit, total))
}

// GetBOQ returns one BOQ with its lines
// @Summary      Get BOQ
// @Tags         boqs
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "BOQ ID"
// @Success      200  {object}  response.Response{data=service.BOQResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/boqs/{id} [get]
func (h *BOQHandler) GetBOQ(c *gin.Context) {
	boq, err := h.boqService.GetBOQ(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, boq))
}

// CreateBOQ creates a BOQ with its lines
// @Summary      Create BOQ
// @Tags         boqs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBOQRequest  true  "BOQ payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/boqs [post]
func (h *BOQHandler) CreateBOQ(c *gin.Context) {
	var req service.CreateBOQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	boq, err := h.boqService.CreateBOQ(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, boq))
}

// UpdateBOQ replaces BOQ header fields and lines
// @Summary      Update BOQ
// @Tags         boqs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "BOQ ID"
// @Param        payload  body  service.UpdateBOQRequest  true  "BOQ payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/boqs/{id} [put]
func (h *BOQHandler) UpdateBOQ(c *gin.Context) {
	var req service.UpdateBOQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	boq, err := h.boqService.UpdateBOQ(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, boq))
}

// DeleteBOQ soft-deletes a BOQ
// @Summary      Delete BOQ
// @Tags         boqs
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "BOQ ID"
// @Success      200  {object}  response.Response
// @Router       /api/boqs/{id} [delete]
func (h *BOQHandler) DeleteBOQ(c *gin.Context) {
	if err := h.boqService.DeleteBOQ(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "BOQ deleted"}))
}
