package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	taxes := router.Group("/api/taxes")
	{
		taxes.POST("", middleware.RequireRole("admin", "manager"), h.CreateTax)
		taxes.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListTaxes)
		taxes.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetTax)
	}
}

// CreateTax creates a new tax definition with a validity window
// @Summary      Create tax
// @Description  Creates a VAT rate definition valid from a given date
// @Tags         taxes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTaxRequest  true  "Create Tax Payload"
// @Success      201      {object}  response.Response{data=service.TaxResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/taxes [post]
func (h *TaxHandler) CreateTax(c *gin.Context) {
	var req service.CreateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tax, err := h.taxService.CreateTax(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tax))
}

// ListTaxes returns a paginated list of tax definitions
// @Summary      List taxes
// @Tags         taxes
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.TaxResponse}
// @Router       /api/taxes [get]
func (h *TaxHandler) ListTaxes(c *gin.Context) {
	params := pagination.Parse(c)

	taxes, total, err := h.taxService.ListTaxes(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, taxes, params.Meta(total)))
}

// GetTax returns a single tax definition
// @Summary      Get tax
// @Tags         taxes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tax ID"
// @Success      200  {object}  response.Response{data=service.TaxResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/taxes/{id} [get]
func (h *TaxHandler) GetTax(c *gin.Context) {
	tax, err := h.taxService.GetTax(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}
