package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/sales", middleware.RequireRole("admin", "manager"), h.SalesReport)
	}
}

// SalesReport returns bucketed sales totals across receipts and issued invoices
// @Summary      Sales report
// @Description  Sums quantity, net, gross and tax per day, week or month over the requested range
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        group_by    query     string  false  "Bucket size: day, week or month (default day)"
// @Param        start_date  query     string  true   "Range start (YYYY-MM-DD)"
// @Param        end_date    query     string  true   "Range end (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=service.SalesReportResponse}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	var req service.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters: "+err.Error()))
		return
	}

	report, err := h.reportService.SalesReport(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
