package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceiptHandler struct {
	receiptService service.ReceiptService
	wsHub          *websocket.Hub
}

func NewReceiptHandler(receiptService service.ReceiptService, wsHub *websocket.Hub) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, wsHub: wsHub}
}

func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/api/receipts")
	{
		// Staff runs the register, so creation is open to all roles.
		receipts.POST("", middleware.RequireRole("admin", "manager", "staff"), h.CreateReceipt)
		receipts.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListReceipts)
		receipts.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetReceipt)
		receipts.GET("/:id/payment-check", middleware.RequireRole("admin", "manager"), h.CheckPayments)
	}
}

// CreateReceipt stores a sale with its lines and payments
// @Summary      Create receipt
// @Description  Stores a point-of-sale receipt; lines and payments are immutable afterwards
// @Tags         receipts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReceiptRequest  true  "Create Receipt Payload"
// @Success      201      {object}  response.Response{data=service.ReceiptResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var req service.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	// Push the new receipt to POS dashboards of the same tenant.
	if h.wsHub != nil {
		if tenantID, ok := c.MustGet("tenantID").(uuid.UUID); ok {
			go h.wsHub.Notify(tenantID, "receipt.created", receipt)
		}
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, receipt))
}

// ListReceipts returns a paginated receipt list
// @Summary      List receipts
// @Tags         receipts
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.ReceiptResponse}
// @Router       /api/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	params := pagination.Parse(c)

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, receipts, params.Meta(total)))
}

// GetReceipt returns one receipt with lines and payments
// @Summary      Get receipt
// @Tags         receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// CheckPayments reports whether payments settle the receipt total
// @Summary      Check receipt payments
// @Description  Compares the payment sum to the final line total; a mismatch is reported, never rejected
// @Tags         receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=service.PaymentCheckResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/receipts/{id}/payment-check [get]
func (h *ReceiptHandler) CheckPayments(c *gin.Context) {
	check, err := h.receiptService.CheckPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, check))
}
