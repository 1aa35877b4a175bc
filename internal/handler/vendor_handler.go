package handler

import (
	"net/http"

	"billing/internal/middleware"
	"billing/internal/service"
	"billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup) {
	vendors := router.Group("/api/vendors")
	{
		vendors.GET("", h.ListVendors)
		vendors.POST("", middleware.RequireAuth(), h.CreateVendor)
		vendors.PUT("/:id", middleware.RequireAuth(), h.UpdateVendor)
		vendors.DELETE("/:id", middleware.RequireAuth(), h.DeleteVendor)
	}
}

// ListVendors returns vendors, optionally filtered by route
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Param        route_id  query  string  false  "Filter by route"
// @Success      200  {object}  response.Response
// @Router       /api/vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorService.GetVendors(c.Request.Context(), c.Query("route_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendors))
}

// CreateVendor creates a new vendor on an existing route
// @Summary      Create vendor
// @Tags         vendors
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateVendorRequest  true  "Vendor payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vendor))
}

// UpdateVendor updates an existing vendor
// @Summary      Update vendor
// @Tags         vendors
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Vendor ID"
// @Param        payload  body  service.UpdateVendorRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/vendors/{id} [put]
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// DeleteVendor deletes a vendor that has no bills
// @Summary      Delete vendor
// @Tags         vendors
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Vendor ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendorService.DeleteVendor(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Vendor deleted successfully"}))
}
