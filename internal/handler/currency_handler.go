package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
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
		currencies.POST("/rates", middleware.RequireRole("admin", "manager"), h.CreateRate)
		currencies.GET("/rates", middleware.RequireRole("admin", "manager", "staff"), h.ListRates)
		currencies.GET("/convert", middleware.RequireRole("admin", "manager", "staff"), h.Convert)
	}
}

// CreateRate records a mid rate for a currency on a date
// @Summary      Create currency rate
// @Tags         currencies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCurrencyRateRequest  true  "Create Rate Payload"
// @Success      201      {object}  response.Response{data=service.CurrencyRateResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/currencies/rates [post]
func (h *CurrencyHandler) CreateRate(c *gin.Context) {
	var req service.CreateCurrencyRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rate, err := h.currencyService.CreateRate(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

// ListRates lists the rates effective on a date
// @Summary      List currency rates
// @Tags         currencies
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Effective date (YYYY-MM-DD, default today)"
// @Success      200   {object}  response.Response{data=[]service.CurrencyRateResponse}
// @Router       /api/currencies/rates [get]
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	rates, err := h.currencyService.ListRates(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// Convert converts an amount using the most recent rate on or before the date
// @Summary      Convert amount
// @Tags         currencies
// @Security     BearerAuth
// @Produce      json
// @Param        code    query     string  true   "Currency code"
// @Param        date    query     string  false  "Conversion date (YYYY-MM-DD, default today)"
// @Param        amount  query     string  true   "Amount to convert"
// @Success      200     {object}  response.Response{data=service.ConvertResponse}
// @Failure      404     {object}  response.Response
// @Router       /api/currencies/convert [get]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	converted, err := h.currencyService.Convert(c.Request.Context(), c.Query("code"), c.Query("date"), c.Query("amount"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, converted))
}
