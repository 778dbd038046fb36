package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalculationHandler struct {
	calcService service.CalculationService
}

func NewCalculationHandler(calcService service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

func (h *CalculationHandler) RegisterRoutes(router *gin.RouterGroup) {
	calcs := router.Group("/api/calculations")
	{
		calcs.POST("", middleware.RequireRole("admin", "manager"), h.CreateCalculation)
		calcs.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListCalculations)
		calcs.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetCalculation)
		calcs.PUT("/:id/close", middleware.RequireRole("admin", "manager"), h.CloseCalculation)

		calcs.POST("/:id/items", middleware.RequireRole("admin", "manager"), h.AddItem)
		calcs.PUT("/:id/items/:itemId", middleware.RequireRole("admin", "manager"), h.UpdateItem)
		calcs.DELETE("/:id/items/:itemId", middleware.RequireRole("admin", "manager"), h.RemoveItem)

		calcs.POST("/:id/expenses", middleware.RequireRole("admin", "manager"), h.AddExpense)
		calcs.PUT("/:id/expenses/:expenseId", middleware.RequireRole("admin", "manager"), h.UpdateExpense)
		calcs.DELETE("/:id/expenses/:expenseId", middleware.RequireRole("admin", "manager"), h.RemoveExpense)
	}
}

// CreateCalculation opens a new costing document
// @Summary      Create calculation
// @Description  Opens an empty calculation with the given input mode
// @Tags         calculations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCalculationRequest  true  "Create Calculation Payload"
// @Success      201      {object}  response.Response{data=service.CalculationResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/calculations [post]
func (h *CalculationHandler) CreateCalculation(c *gin.Context) {
	var req service.CreateCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	calc, err := h.calcService.CreateCalculation(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, calc))
}

// ListCalculations returns a paginated calculation list
// @Summary      List calculations
// @Tags         calculations
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.CalculationResponse}
// @Router       /api/calculations [get]
func (h *CalculationHandler) ListCalculations(c *gin.Context) {
	params := pagination.Parse(c)

	calcs, total, err := h.calcService.ListCalculations(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, calcs, params.Meta(total)))
}

// GetCalculation returns one calculation with lines and expenses
// @Summary      Get calculation
// @Tags         calculations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Calculation ID"
// @Success      200  {object}  response.Response{data=service.CalculationResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/calculations/{id} [get]
func (h *CalculationHandler) GetCalculation(c *gin.Context) {
	calc, err := h.calcService.GetCalculation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// CloseCalculation makes the calculation immutable
// @Summary      Close calculation
// @Tags         calculations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Calculation ID"
// @Success      200  {object}  response.Response{data=service.CalculationResponse}
// @Failure      422  {object}  response.Response
// @Router       /api/calculations/{id}/close [put]
func (h *CalculationHandler) CloseCalculation(c *gin.Context) {
	calc, err := h.calcService.CloseCalculation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// AddItem appends a priced line and redistributes all expenses
// @Summary      Add calculation item
// @Tags         calculations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Calculation ID"
// @Param        payload  body      service.CalculationItemRequest  true  "Add Item Payload"
// @Success      200      {object}  response.Response{data=service.CalculationResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/calculations/{id}/items [post]
func (h *CalculationHandler) AddItem(c *gin.Context) {
	var req service.CalculationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	calc, err := h.calcService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// UpdateItem reprices a line and redistributes all expenses
// @Summary      Update calculation item
// @Tags         calculations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                                true  "Calculation ID"
// @Param        itemId   path      string                                true  "Line ID"
// @Param        payload  body      service.UpdateCalculationItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.CalculationResponse}
// @Router       /api/calculations/{id}/items/{itemId} [put]
func (h *CalculationHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateCalculationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	calc, err := h.calcService.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// RemoveItem drops a line and redistributes all expenses
// @Summary      Remove calculation item
// @Tags         calculations
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true  "Calculation ID"
// @Param        itemId  path      string  true  "Line ID"
// @Success      200     {object}  response.Response{data=service.CalculationResponse}
// @Router       /api/calculations/{id}/items/{itemId} [delete]
func (h *CalculationHandler) RemoveItem(c *gin.Context) {
	calc, err := h.calcService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// AddExpense adds an internal or external expense entry
// @Summary      Add calculation expense
// @Tags         calculations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Calculation ID"
// @Param        payload  body      service.CalculationExpenseRequest  true  "Add Expense Payload"
// @Success      200      {object}  response.Response{data=service.CalculationResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/calculations/{id}/expenses [post]
func (h *CalculationHandler) AddExpense(c *gin.Context) {
	var req service.CalculationExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	calc, err := h.calcService.AddExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// UpdateExpense edits an expense entry
// @Summary      Update calculation expense
// @Tags         calculations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id         path      string                             true  "Calculation ID"
// @Param        expenseId  path      string                             true  "Expense ID"
// @Param        payload    body      service.CalculationExpenseRequest  true  "Update Expense Payload"
// @Success      200        {object}  response.Response{data=service.CalculationResponse}
// @Router       /api/calculations/{id}/expenses/{expenseId} [put]
func (h *CalculationHandler) UpdateExpense(c *gin.Context) {
	var req service.CalculationExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	calc, err := h.calcService.UpdateExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}

// RemoveExpense drops an expense entry
// @Summary      Remove calculation expense
// @Tags         calculations
// @Security     BearerAuth
// @Produce      json
// @Param        id         path      string  true  "Calculation ID"
// @Param        expenseId  path      string  true  "Expense ID"
// @Success      200        {object}  response.Response{data=service.CalculationResponse}
// @Router       /api/calculations/{id}/expenses/{expenseId} [delete]
func (h *CalculationHandler) RemoveExpense(c *gin.Context) {
	calc, err := h.calcService.RemoveExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calc))
}
