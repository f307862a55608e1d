package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChallanHandler struct {
	challanService service.ChallanService
}

func NewChallanHandler(challanService service.ChallanService) *ChallanHandler {
	return &ChallanHandler{challanService: challanService}
}

func (h *ChallanHandler) RegisterRoutes(router *gin.RouterGroup) {
	challans := router.Group("/api/challans")
	{
		challans.GET("", middleware.RequirePermission("challans.read"), h.ListChallans)
		challans.GET("/:id", middleware.RequirePermission("challans.read"), h.GetChallan)
		challans.POST("", middleware.RequirePermission("challans.write"), h.CreateChallan)
		challans.DELETE("/:id", middleware.RequirePermission("challans.write"), h.DeleteChallan)
	}
}

// ListChallans returns paginated inward challans, filterable by purchase order
// @Summary      List challans
// @Tags         challans
// @Security     BearerAuth
// @Produce      json
// @Param        page               query     int     false  "Page number (default: 1)"
// @Param        limit              query     int     false  "Items per page (default: 20)"
// @Param        purchase_order_id  query     string  false  "Filter by purchase order"
// @Success      200                {object}  response.Response
// @Router       /api/challans [get]
func (h *ChallanHandler) ListChallans(c *gin.Context) {
	params := pagination.Parse(c)

	challans, total, err := h.challanService.GetChallans(c.Request.Context(), c.Query("purchase_order_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, challans, params.Page, params.Limit, total))
}

// GetChallan returns one inward challan with its lines
// @Summary      Get challan
// @Tags         challans
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Challan ID"
// @Success      200  {object}  response.Response{data=service.ChallanResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/challans/{id} [get]
func (h *ChallanHandler) GetChallan(c *gin.Context) {
	challan, err := h.challanService.GetChallan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, challan))
}

// CreateChallan records goods received against an approved purchase order
// @Summary      Create challan
// @Tags         challans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateChallanRequest  true  "Challan payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/challans [post]
func (h *ChallanHandler) CreateChallan(c *gin.Context) {
	var req service.CreateChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	challan, err := h.challanService.CreateChallan(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, challan))
}

// DeleteChallan removes a challan record
// @Summary      Delete challan
// @Tags         challans
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Challan ID"
// @Success      200  {object}  response.Response
// @Router       /api/challans/{id} [delete]
func (h *ChallanHandler) DeleteChallan(c *gin.Context) {
	if err := h.challanService.DeleteChallan(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "challan deleted"}))
}
