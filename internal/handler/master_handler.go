package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// MasterHandler serves the small master tables: payment terms,
// rental categories and manpower records.
type MasterHandler struct {
	masterService service.MasterService
}

func NewMasterHandler(masterService service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

func (h *MasterHandler) RegisterRoutes(router *gin.RouterGroup) {
	terms := router.Group("/api/payment-terms")
	{
		terms.GET("", middleware.RequirePermission("masters.read"), h.ListPaymentTerms)
		terms.POST("", middleware.RequirePermission("masters.write"), h.CreatePaymentTerm)
		terms.PUT("/:id", middleware.RequirePermission("masters.write"), h.UpdatePaymentTerm)
		terms.DELETE("/:id", middleware.RequirePermission("masters.write"), h.DeletePaymentTerm)
	}

	rentals := router.Group("/api/rental-categories")
	{
		rentals.GET("", middleware.RequirePermission("masters.read"), h.ListRentalCategories)
		rentals.POST("", middleware.RequirePermission("masters.write"), h.CreateRentalCategory)
		rentals.PUT("/:id", middleware.RequirePermission("masters.write"), h.UpdateRentalCategory)
		rentals.DELETE("/:id", middleware.RequirePermission("masters.write"), h.DeleteRentalCategory)
	}

	manpower := router.Group("/api/manpower")
	{
		manpower.GET("", middleware.RequirePermission("masters.read"), h.ListManpower)
		manpower.POST("", middleware.RequirePermission("masters.write"), h.CreateManpower)
		manpower.PUT("/:id", middleware.RequirePermission("masters.write"), h.UpdateManpower)
		manpower.DELETE("/:id", middleware.RequirePermission("masters.write"), h.DeleteManpower)
	}
}

// --- Payment terms ---

// ListPaymentTerms returns paginated payment terms
// @Summary      List payment terms
// @Tags         masters
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/payment-terms [get]
func (h *MasterHandler) ListPaymentTerms(c *gin.Context) {
	params := pagination.Parse(c)

	terms, total, err := h.masterService.GetPaymentTerms(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, terms, params.Page, params.Limit, total))
}

// CreatePaymentTerm creates a payment term
// @Summary      Create payment term
// @Tags         masters
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.PaymentTermPayload  true  "Payment term payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/payment-terms [post]
func (h *MasterHandler) CreatePaymentTerm(c *gin.Context) {
	var req service.PaymentTermPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	term, err := h.masterService.CreatePaymentTerm(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, term))
}

// UpdatePaymentTerm updates a payment term
// @Summary      Update payment term
// @Tags         masters
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Payment term ID"
// @Param        payload  body  service.PaymentTermPayload  true  "Payment term payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/payment-terms/{id} [put]
func (h *MasterHandler) UpdatePaymentTerm(c *gin.Context) {
	var req service.PaymentTermPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	term, err := h.masterService.UpdatePaymentTerm(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, term))
}

// DeletePaymentTerm deletes a payment term
// @Summary      Delete payment term
// @Tags         masters
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment term ID"
// @Success      200  {object}  response.Response
// @Router       /api/payment-terms/{id} [delete]
func (h *MasterHandler) DeletePaymentTerm(c *gin.Context) {
	if err := h.masterService.DeletePaymentTerm(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "payment term deleted"}))
}

// --- Rental categories ---

// ListRentalCategories returns paginated rental categories
// @Summary      List rental categories
// @Tags         masters
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/rental-categories [get]
func (h *MasterHandler) ListRentalCategories(c *gin.Context) {
	params := pagination.Parse(c)

	categories, total, err := h.masterService.GetRentalCategories(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, categories, params.Page, params.Limit, total))
}

// CreateRentalCategory creates a rental category
// @Summary      Create rental category
// @Tags         masters
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RentalCategoryPayload  true  "Rental category payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/rental-categories [post]
func (h *MasterHandler) CreateRentalCategory(c *gin.Context) {
	var req service.RentalCategoryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.masterService.CreateRentalCategory(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// UpdateRentalCategory updates a rental category
// @Summary      Update rental category
// @Tags         masters
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Rental category ID"
// @Param        payload  body  service.RentalCategoryPayload  true  "Rental category payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/rental-categories/{id} [put]
func (h *MasterHandler) UpdateRentalCategory(c *gin.Context) {
	var req service.RentalCategoryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.masterService.UpdateRentalCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteRentalCategory deletes a rental category
// @Summary      Delete rental category
// @Tags         masters
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rental category ID"
// @Success      200  {object}  response.Response
// @Router       /api/rental-categories/{id} [delete]
func (h *MasterHandler) DeleteRentalCategory(c *gin.Context) {
	if err := h.masterService.DeleteRentalCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "rental category deleted"}))
}

// --- Manpower ---

// ListManpower returns paginated manpower records, optionally filtered by site
// @Summary      List manpower
// @Tags         masters
// @Security     BearerAuth
// @Produce      json
// @Param        page     query     int     false  "Page number (default: 1)"
// @Param        limit    query     int     false  "Items per page (default: 20)"
// @Param        site_id  query     string  false  "Filter by site"
// @Success      200      {object}  response.Response
// @Router       /api/manpower [get]
func (h *MasterHandler) ListManpower(c *gin.Context) {
	params := pagination.Parse(c)

	records, total, err := h.masterService.GetManpower(c.Request.Context(), c.Query("site_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, records, params.Page, params.Limit, total))
}

// CreateManpower creates a manpower record
// @Summary      Create manpower record
// @Tags         masters
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ManpowerPayload  true  "Manpower payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/manpower [post]
func (h *MasterHandler) CreateManpower(c *gin.Context) {
	var req service.ManpowerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.masterService.CreateManpower(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// UpdateManpower updates a manpower record
// @Summary      Update manpower record
// @Tags         masters
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                   true  "Manpower ID"
// @Param        payload  body  service.ManpowerPayload  true  "Manpower payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/manpower/{id} [put]
func (h *MasterHandler) UpdateManpower(c *gin.Context) {
	var req service.ManpowerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.masterService.UpdateManpower(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// DeleteManpower deletes a manpower record
// @Summary      Delete manpower record
// @Tags         masters
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Manpower ID"
// @Success      200  {object}  response.Response
// @Router       /api/manpower/{id} [delete]
func (h *MasterHandler) DeleteManpower(c *gin.Context) {
	if err := h.masterService.DeleteManpower(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "manpower record deleted"}))
}
