package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type WorkOrderHandler struct {
	workOrderService service.WorkOrderService
}

func NewWorkOrderHandler(workOrderService service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

func (h *WorkOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/work-orders")
	{
		orders.POST("", middleware.RequireRole("admin", "manager", "staff"), h.CreateWorkOrder)
		orders.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListWorkOrders)
		orders.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetWorkOrder)
		orders.PUT("/:id/close", middleware.RequireRole("admin", "manager"), h.CloseWorkOrder)
	}
}

// CreateWorkOrder creates a work order with net-first priced lines
// @Summary      Create work order
// @Description  Prices each line from warehouse stock when available, falling back to the catalog net price
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWorkOrderRequest  true  "Create Work Order Payload"
// @Success      201      {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListWorkOrders returns a paginated work order list
// @Summary      List work orders
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.WorkOrderResponse}
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.workOrderService.ListWorkOrders(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, params.Meta(total)))
}

// GetWorkOrder returns one work order with its lines
// @Summary      Get work order
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work Order ID"
// @Success      200  {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	order, err := h.workOrderService.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CloseWorkOrder closes a work order
// @Summary      Close work order
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work Order ID"
// @Success      200  {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      422  {object}  response.Response
// @Router       /api/work-orders/{id}/close [put]
func (h *WorkOrderHandler) CloseWorkOrder(c *gin.Context) {
	order, err := h.workOrderService.CloseWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
