package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type IndentHandler struct {
	indentService service.IndentService
}

func NewIndentHandler(indentService service.IndentService) *IndentHandler {
	return &IndentHandler{indentService: indentService}
}

func (h *IndentHandler) RegisterRoutes(router *gin.RouterGroup) {
	indents := router.Group("/api/indents")
	{
		indents.GET("", middleware.RequirePermission("indents.read"), h.ListIndents)
		indents.GET("/:id", middleware.RequirePermission("indents.read"), h.GetIndent)
		indents.POST("", middleware.RequirePermission("indents.write"), h.CreateIndent)
		indents.POST("/:id/close", middleware.RequirePermission("indents.write"), h.CloseIndent)
	}
}

// ListIndents returns paginated indents, filterable by site and status
// @Summary      List indents
// @Tags         indents
// @Security     BearerAuth
// @Produce      json
// @Param        page     query     int     false  "Page number (default: 1)"
// @Param        limit    query     int     false  "Items per page (default: 20)"
// @Param        site_id  query     string  false  "Filter by site"
// @Param        status   query     string  false  "Filter by status (OPEN, CLOSED)"
// @Success      200      {object}  response.Response
// @Router       /api/indents [get]
func (h *IndentHandler) ListIndents(c *gin.Context) {
	params := pagination.Parse(c)

	indents, total, err := h.indentService.GetIndents(c.Request.Context(), c.Query("site_id"), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, indents, params.Page, params.Limit, total))
}

// GetIndent returns one indent with its lines
// @Summary      Get indent
// @Tags         indents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Indent ID"
// @Success      200  {object}  response.Response{data=service.IndentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/indents/{id} [get]
func (h *IndentHandler) GetIndent(c *gin.Context) {
	indent, err := h.indentService.GetIndent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, indent))
}

// CreateIndent creates an indent with approved-quantity lines
// @Summary      Create indent
// @Tags         indents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateIndentRequest  true  "Indent payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/indents [post]
func (h *IndentHandler) CreateIndent(c *gin.Context) {
	var req service.CreateIndentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	indent, err := h.indentService.CreateIndent(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, indent))
}

// CloseIndent marks an open indent as closed
// @Summary      Close indent
// @Tags         indents
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Indent ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/indents/{id}/close [post]
func (h *IndentHandler) CloseIndent(c *gin.Context) {
	indent, err := h.indentService.CloseIndent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, indent))
}
