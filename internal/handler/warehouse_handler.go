package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type WarehouseHandler struct {
	warehouseService service.WarehouseService
}

func NewWarehouseHandler(warehouseService service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

func (h *WarehouseHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouses := router.Group("/api/warehouses")
	{
		warehouses.POST("", middleware.RequireRole("admin", "manager"), h.CreateWarehouse)
		warehouses.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListWarehouses)
		warehouses.PUT("/:id/stock", middleware.RequireRole("admin", "manager"), h.SetStock)
	}
}

// CreateWarehouse creates a warehouse
// @Summary      Create warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWarehouseRequest  true  "Create Warehouse Payload"
// @Success      201      {object}  response.Response{data=service.WarehouseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req service.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, warehouse))
}

// ListWarehouses returns all warehouses of the tenant
// @Summary      List warehouses
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.WarehouseResponse}
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouseService.ListWarehouses(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouses))
}

// SetStock upserts the stock record of an item in a warehouse
// @Summary      Set warehouse stock
// @Description  Sets the quantity and stock price of an item; work order pricing prefers this price
// @Tags         warehouses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Warehouse ID"
// @Param        payload  body      service.SetStockRequest  true  "Set Stock Payload"
// @Success      200      {object}  response.Response{data=service.StockResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/warehouses/{id}/stock [put]
func (h *WarehouseHandler) SetStock(c *gin.Context) {
	var req service.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	stock, err := h.warehouseService.SetStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stock))
}
