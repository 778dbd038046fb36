package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	tenantService service.TenantService
}

func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func (h *TenantHandler) RegisterRoutes(router *gin.RouterGroup) {
	tenants := router.Group("/api/tenants")
	{
		// Registration bootstraps a new tenant, so it is unauthenticated.
		tenants.POST("", h.CreateTenant)

		tenants.GET("", middleware.RequireRole("admin"), h.ListTenants)
		tenants.GET("/:id", middleware.RequireRole("admin"), h.GetTenant)
		tenants.PUT("/:id/suspend", middleware.RequireRole("admin"), h.SuspendTenant)
		tenants.PUT("/:id/activate", middleware.RequireRole("admin"), h.ActivateTenant)
	}
}

// CreateTenant registers a new tenant
// @Summary      Register tenant
// @Description  Registers a tenant; the registration number must be unique
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTenantRequest  true  "Register Tenant Payload"
// @Success      201      {object}  response.Response{data=service.TenantResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req service.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tenant))
}

// ListTenants returns all tenants
// @Summary      List tenants
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.TenantResponse}
// @Router       /api/tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenantService.ListTenants(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenants))
}

// GetTenant returns a single tenant
// @Summary      Get tenant
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  response.Response{data=service.TenantResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenant, err := h.tenantService.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// SuspendTenant blocks logins for a tenant
// @Summary      Suspend tenant
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  response.Response{data=service.TenantResponse}
// @Router       /api/tenants/{id}/suspend [put]
func (h *TenantHandler) SuspendTenant(c *gin.Context) {
	tenant, err := h.tenantService.SuspendTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// ActivateTenant re-enables a suspended tenant
// @Summary      Activate tenant
// @Tags         tenants
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  response.Response{data=service.TenantResponse}
// @Router       /api/tenants/{id}/activate [put]
func (h *TenantHandler) ActivateTenant(c *gin.Context) {
	tenant, err := h.tenantService.ActivateTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}
