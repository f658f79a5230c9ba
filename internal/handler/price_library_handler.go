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

type PriceLibraryHandler struct {
	priceService service.PriceLibraryService
}

func NewPriceLibraryHandler(priceService service.PriceLibraryService) *PriceLibraryHandler {
	return &PriceLibraryHandler{priceService: priceService}
}

func (h *PriceLibraryHandler) RegisterRoutes(router *gin.RouterGroup) {
	prices := router.Group("/api/price-items")
	{
		prices.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListPriceItems)
		prices.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.CreatePriceItem)
		prices.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.GetPriceItem)
		prices.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdatePriceItem)
		prices.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeletePriceItem)
	}
}

// ListPriceItems returns paginated reference prices with optional filters
// @Summary      List price items
// @Tags         price-library
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default: 1)"
// @Param        limit     query     int     false  "Items per page (default: 20)"
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Search by name"
// @Success      200       {object}  response.Response
// @Router       /api/price-items [get]
func (h *PriceLibraryHandler) ListPriceItems(c *gin.Context) {
	params := pagination.Parse(c)
	category := c.Query("category")
	search := c.Query("search")

	items, total, err := h.priceService.ListPriceItems(c.Request.Context(), category, search, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, params.Page, params.Limit, total))
}

// CreatePriceItem adds a reference price to the library
// @Summary      Create price item
// @Tags         price-library
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePriceItemRequest  true  "Price item payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-items [post]
func (h *PriceLibraryHandler) CreatePriceItem(c *gin.Context) {
	var req service.CreatePriceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.priceService.CreatePriceItem(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// GetPriceItem returns one price item
// @Summary      Get price item
// @Tags         price-library
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Price item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/price-items/{id} [get]
func (h *PriceLibraryHandler) GetPriceItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid price item ID"))
		return
	}

	item, err := h.priceService.GetPriceItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdatePriceItem updates an existing price item
// @Summary      Update price item
// @Tags         price-library
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Price item ID"
// @Param        payload  body  service.UpdatePriceItemRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-items/{id} [put]
func (h *PriceLibraryHandler) UpdatePriceItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid price item ID"))
		return
	}

	var req service.UpdatePriceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.priceService.UpdatePriceItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeletePriceItem removes a price item
// @Summary      Delete price item
// @Tags         price-library
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Price item ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/price-items/{id} [delete]
func (h *PriceLibraryHandler) DeletePriceItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid price item ID"))
		return
	}

	if err := h.priceService.DeletePriceItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Price item deleted successfully"}))
}
