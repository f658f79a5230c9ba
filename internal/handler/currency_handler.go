package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CurrencyHandler struct {
	currencyService service.CurrencyService
}

func NewCurrencyHandler(currencyService service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

func (h *CurrencyHandler) RegisterRoutes(router *gin.RouterGroup) {
	currencies := router.Group("/api/currencies")
	{
		currencies.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListCurrencies)
		currencies.GET("/convert", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.Convert)
	}
}

// ListCurrencies returns the supported currency table
// @Summary      List currencies
// @Tags         currencies
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies := h.currencyService.ListCurrencies(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, currencies))
}

// Convert converts an amount between two supported currencies
// @Summary      Convert amount
// @Tags         currencies
// @Security     BearerAuth
// @Produce      json
// @Param        amount  query  string  true  "Amount to convert"
// @Param        from    query  string  true  "Source currency code"
// @Param        to      query  string  true  "Target currency code"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/currencies/convert [get]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid amount"))
		return
	}
	from := c.Query("from")
	to := c.Query("to")

	converted, err := h.currencyService.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	formatted, err := h.currencyService.Format(c.Request.Context(), converted, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"amount":    converted,
		"formatted": formatted,
		"from":      from,
		"to":        to,
	}))
}
