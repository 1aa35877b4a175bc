package handler

import (
	"net/http"

	"billing/internal/middleware"
	"billing/internal/model"
	"billing/internal/service"
	"billing/pkg/pagination"
	"billing/pkg/response"

	"github.com/gin-gonic/gin"
)

// DeleteAllConfirmToken must be passed as ?confirm= to wipe every bill.
// The bulk delete is refused without it.
const DeleteAllConfirmToken = "ALL"

type BillHandler struct {
	billService service.BillService
}

func NewBillHandler(billService service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

func (h *BillHandler) RegisterRoutes(router *gin.RouterGroup) {
	bills := router.Group("/api/bills")
	{
		bills.GET("", h.ListBills)
		bills.POST("", middleware.RequireAuth(), h.CreateBill)
		bills.DELETE("/:id", middleware.RequireAuth(), h.DeleteBill)
		bills.DELETE("", middleware.RequireRole(model.RoleAdmin), h.DeleteAllBills)
		bills.POST("/resync-prices", middleware.RequireRole(model.RoleAdmin), h.ResyncPrices)
	}
	lines := router.Group("/api/bill-items")
	{
		lines.GET("", h.ListBillItems)
		lines.PUT("/:id", middleware.RequireAuth(), h.UpdateBillItem)
		lines.DELETE("/:id", middleware.RequireAuth(), h.DeleteBillItem)
	}
}

// ListBills returns paginated bills with their lines and computed GST figures
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Param        vendor_id  query  string  false  "Filter by vendor"
// @Param        lang       query  string  false  "Display language: en or gu (default en)"
// @Param        page       query  int     false  "Page number (default: 1)"
// @Param        limit      query  int     false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/bills [get]
func (h *BillHandler) ListBills(c *gin.Context) {
	params := pagination.Parse(c)
	bills, total, err := h.billService.GetBills(c.Request.Context(), c.Query("vendor_id"), c.DefaultQuery("lang", "en"), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, bills, params.Page, params.Limit, total))
}

// CreateBill creates a bill and all its lines atomically, snapshotting
// each item's current rate into the line price
// @Summary      Create bill with items
// @Tags         bills
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBillRequest  true  "Bill payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	billID, err := h.billService.CreateBill(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"bill_id": billID}))
}

// DeleteBill deletes one bill and its lines in a single transaction
// @Summary      Delete bill
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Bill ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bills/{id} [delete]
func (h *BillHandler) DeleteBill(c *gin.Context) {
	if err := h.billService.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Bill deleted successfully"}))
}

// DeleteAllBills wipes every bill and bill line. Requires the explicit
// confirmation token; this cannot be undone.
// @Summary      Delete ALL bills
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        confirm  query  string  true  "Must be ALL"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bills [delete]
func (h *BillHandler) DeleteAllBills(c *gin.Context) {
	if c.Query("confirm") != DeleteAllConfirmToken {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest,
			"Refusing to delete all bills without confirm="+DeleteAllConfirmToken))
		return
	}

	if err := h.billService.DeleteAllBills(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "All bills deleted"}))
}

// ResyncPrices rewrites line prices that drifted from their item's current
// rate. The only sanctioned way to alter price history.
// @Summary      Resync bill line prices from the catalog
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/bills/resync-prices [post]
func (h *BillHandler) ResyncPrices(c *gin.Context) {
	result, err := h.billService.ResyncPrices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListBillItems returns the lines of a single bill with computed figures
// @Summary      List bill lines
// @Tags         bills
// @Produce      json
// @Param        bill_id  query  string  true   "Bill ID"
// @Param        lang     query  string  false  "Display language: en or gu (default en)"
// @Success      200  {object}  response.Response{data=[]service.BillLineResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/bill-items [get]
func (h *BillHandler) ListBillItems(c *gin.Context) {
	items, err := h.billService.GetBillItems(c.Request.Context(), c.Query("bill_id"), c.DefaultQuery("lang", "en"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// UpdateBillItem changes a line's quantity and refreshes the owning bill's totals
// @Summary      Update bill line
// @Tags         bills
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Bill item ID"
// @Param        payload  body  service.UpdateBillItemRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bill-items/{id} [put]
func (h *BillHandler) UpdateBillItem(c *gin.Context) {
	var req service.UpdateBillItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.billService.UpdateBillItem(c.Request.Context(), c.Param("id"), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Bill item updated"}))
}

// DeleteBillItem removes one line and refreshes the owning bill's totals
// @Summary      Delete bill line
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Bill item ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bill-items/{id} [delete]
func (h *BillHandler) DeleteBillItem(c *gin.Context) {
	if err := h.billService.DeleteBillItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Bill item deleted"}))
}
