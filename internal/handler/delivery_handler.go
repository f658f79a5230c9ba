package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

func (h *DeliveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	deliveries := router.Group("/api/deliveries")
	{
		deliveries.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListDeliveryNotes)
		deliveries.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.CreateDeliveryNote)
		deliveries.GET("/stats", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.GetStats)
		deliveries.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.GetDeliveryNote)
		deliveries.POST("/:id/receive", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ReceiveDelivery)
	}

	orders := router.Group("/api/purchase-orders")
	{
		orders.GET("/:id/deliveries", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListByPurchaseOrder)
	}
}

// ListDeliveryNotes returns paginated delivery notes
// @Summary      List delivery notes
// @Tags         deliveries
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) ListDeliveryNotes(c *gin.Context) {
	params := pagination.Parse(c)

	notes, total, err := h.deliveryService.ListDeliveryNotes(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, notes, params.Page, params.Limit, total))
}

// CreateDeliveryNote creates a delivery note against a purchase order
// @Summary      Create delivery note
// @Tags         deliveries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateDeliveryNoteRequest  true  "Delivery note payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) CreateDeliveryNote(c *gin.Context) {
	var req service.CreateDeliveryNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	note, err := h.deliveryService.CreateDeliveryNote(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, note))
}

// GetDeliveryNote returns one delivery note with its items and order
// @Summary      Get delivery note
// @Tags         deliveries
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Delivery note ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetDeliveryNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid delivery note ID"))
		return
	}

	note, err := h.deliveryService.GetDeliveryNote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, note))
}

// ReceiveDelivery marks a delivery as received and books the actual expense.
// The response includes surplus warnings when delivered quantities exceed the
// ordered ones beyond tolerance.
// @Summary      Receive delivery
// @Tags         deliveries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Delivery note ID"
// @Param        payload  body  service.ReceiveDeliveryRequest  true  "Receipt payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/deliveries/{id}/receive [post]
func (h *DeliveryHandler) ReceiveDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid delivery note ID"))
		return
	}

	var req service.ReceiveDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.deliveryService.ReceiveDelivery(c.Request.Context(), c.GetString("userID"), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListByPurchaseOrder returns the delivery notes of one purchase order
// @Summary      List order deliveries
// @Tags         deliveries
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Purchase order ID"
// @Success      200  {object}  response.Response
// @Router       /api/purchase-orders/{id}/deliveries [get]
func (h *DeliveryHandler) ListByPurchaseOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid purchase order ID"))
		return
	}

	notes, err := h.deliveryService.ListByPurchaseOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, notes))
}

// GetStats returns delivery performance metrics
// @Summary      Delivery stats
// @Tags         deliveries
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/deliveries/stats [get]
func (h *DeliveryHandler) GetStats(c *gin.Context) {
	params := pagination.Parse(c)

	stats, err := h.deliveryService.GetStats(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
