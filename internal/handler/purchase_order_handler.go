package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
}

func NewPurchaseOrderHandler(poService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/purchase-orders")
	{
		orders.POST("", middleware.RequirePermission("purchase_orders.write"), h.CreatePurchaseOrder)
		orders.GET("", middleware.RequirePermission("purchase_orders.read"), h.ListPurchaseOrders)
		orders.GET("/:id", middleware.RequirePermission("purchase_orders.read"), h.GetPurchaseOrder)
		orders.PUT("/:id", middleware.RequirePermission("purchase_orders.write"), h.UpdatePurchaseOrder)
		orders.PATCH("/:id", middleware.RequirePermission("purchase_orders.read"), h.PatchPurchaseOrder)
		orders.DELETE("/:id", middleware.RequirePermission("purchase_orders.write"), h.DeletePurchaseOrder)
	}
}

// patchRequest is the combined PATCH payload: a status action, an
// operational status update, or both never at once. status_action wins
// when present.
type patchRequest struct {
	StatusAction string                          `json:"status_action"`
	Lines        []service.TransitionLineRequest `json:"lines"`
	PoStatus     *string                         `json:"po_status"`
	BillStatus   *string                         `json:"bill_status"`
	Remarks      *string                         `json:"remarks"`
}

// CreatePurchaseOrder creates a new draft purchase order
// @Summary      Create purchase order
// @Description  Creates a draft purchase order with lines, validating budget ceilings
// @Tags         purchase-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchaseOrderRequest  true  "Create Purchase Order Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.poService.CreatePurchaseOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListPurchaseOrders returns a paginated, filterable order list
// @Summary      List purchase orders
// @Description  Retrieves a paginated list of purchase orders with optional filters
// @Tags         purchase-orders
// @Security     BearerAuth
// @Produce      json
// @Param        approval_status  query     string  false  "Filter by approval status (DRAFT, APPROVED_LEVEL_1, APPROVED_LEVEL_2, COMPLETED)"
// @Param        po_status        query     string  false  "Filter by operational status"
// @Param        site_id          query     string  false  "Filter by site"
// @Param        vendor_id        query     string  false  "Filter by vendor"
// @Param        suspended        query     bool    false  "Filter by suspension flag"
// @Param        order_number     query     string  false  "Partial match on order number"
// @Param        page             query     int     false  "Page number (default 1)"
// @Param        limit            query     int     false  "Number of items per page (default 20)"
// @Success      200              {object}  response.Response{data=object}
// @Failure      500              {object}  response.Response
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.PurchaseOrderFilter{
		ApprovalStatus: c.Query("approval_status"),
		PoStatus:       c.Query("po_status"),
		SiteID:         c.Query("site_id"),
		VendorID:       c.Query("vendor_id"),
		OrderNumber:    c.Query("order_number"),
		Page:           params.Page,
		Limit:          params.Limit,
	}
	if raw := c.Query("suspended"); raw != "" {
		suspended := raw == "true"
		filter.Suspended = &suspended
	}

	orders, total, err := h.poService.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"purchase_orders": orders,
		"total":           total,
		"page":            params.Page,
		"limit":           params.Limit,
	}))
}

// GetPurchaseOrder returns a single order with its lines and relations
// @Summary      Get purchase order
// @Description  Retrieves one purchase order by ID with lines and master data
// @Tags         purchase-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	order, err := h.poService.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdatePurchaseOrder rewrites a draft order's header and lines
// @Summary      Update purchase order
// @Description  Rewrites header fields and the full line set of a DRAFT order
// @Tags         purchase-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Purchase Order ID"
// @Param        payload  body      service.UpdatePurchaseOrderRequest  true  "Update Purchase Order Payload"
// @Success      200      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) UpdatePurchaseOrder(c *gin.Context) {
	var req service.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.poService.UpdatePurchaseOrder(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// PatchPurchaseOrder applies a status action or an operational update
// @Summary      Patch purchase order
// @Description  Applies a status action (approve1, approve2, complete, suspend, unsuspend) or updates operational status fields
// @Tags         purchase-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string        true  "Purchase Order ID"
// @Param        payload  body      patchRequest  true  "Patch Payload"
// @Success      200      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/purchase-orders/{id} [patch]
func (h *PurchaseOrderHandler) PatchPurchaseOrder(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if req.StatusAction != "" {
		// Approval stage permissions differ per action
		requiredPerm := map[string]string{
			service.POActionApprove1:  "purchase_orders.approve1",
			service.POActionApprove2:  "purchase_orders.approve2",
			service.POActionComplete:  "purchase_orders.approve2",
			service.POActionSuspend:   "purchase_orders.suspend",
			service.POActionUnsuspend: "purchase_orders.suspend",
		}[req.StatusAction]
		if requiredPerm == "" {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "unknown status_action"))
			return
		}
		if !middleware.HasPermission(c, requiredPerm) {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "missing permission: "+requiredPerm))
			return
		}

		order, err := h.poService.TransitionPurchaseOrder(c.Request.Context(), currentUserID(c), c.Param("id"), service.TransitionRequest{
			Action: req.StatusAction,
			Lines:  req.Lines,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
		return
	}

	if !middleware.HasPermission(c, "purchase_orders.write") {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "missing permission: purchase_orders.write"))
		return
	}

	order, err := h.poService.UpdateOperationalStatus(c.Request.Context(), currentUserID(c), c.Param("id"), service.OperationalUpdateRequest{
		PoStatus:   req.PoStatus,
		BillStatus: req.BillStatus,
		Remarks:    req.Remarks,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeletePurchaseOrder deletes a draft order
// @Summary      Delete purchase order
// @Description  Deletes a DRAFT, unsuspended purchase order and its lines
// @Tags         purchase-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *gin.Context) {
	if err := h.poService.DeletePurchaseOrder(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "purchase order deleted"}))
}
