package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService service.ItemService
}

func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.POST("", middleware.RequireRole("admin", "manager"), h.CreateItem)
		items.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListItems)
		items.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetItem)
		items.GET("/barcode/:barcode", middleware.RequireRole("admin", "manager", "staff"), h.GetItemByBarcode)
		items.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateItem)
		items.PUT("/:id/deactivate", middleware.RequireRole("admin", "manager"), h.DeactivateItem)
	}
}

// CreateItem creates a catalog item with a derived net/gross price pair
// @Summary      Create item
// @Description  Creates a catalog item; the non-authoritative price side is derived from the tax rate
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems returns a paginated item list
// @Summary      List items
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.ItemResponse}
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.itemService.ListItems(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, params.Meta(total)))
}

// GetItem returns a single item
// @Summary      Get item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// GetItemByBarcode looks an item up by barcode, for POS scanning
// @Summary      Get item by barcode
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        barcode  path      string  true  "Barcode"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/items/barcode/{barcode} [get]
func (h *ItemHandler) GetItemByBarcode(c *gin.Context) {
	item, err := h.itemService.GetItemByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem updates item master data and optionally reprices it
// @Summary      Update item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeactivateItem takes an item out of sale without deleting its history
// @Summary      Deactivate item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id}/deactivate [put]
func (h *ItemHandler) DeactivateItem(c *gin.Context) {
	if err := h.itemService.DeactivateItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "deactivated"}))
}
