package handler

import (
	"net/http"

	"billing/internal/middleware"
	"billing/internal/service"
	"billing/pkg/response"

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
		items.GET("", h.ListItems)
		items.POST("", middleware.RequireAuth(), h.CreateItem)
		items.PUT("/:id", middleware.RequireAuth(), h.UpdateItem)
		items.DELETE("/:id", middleware.RequireAuth(), h.DeleteItem)
	}
}

// ListItems returns the full catalog
// @Summary      List items
// @Tags         items
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.itemService.GetItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateItem creates a new catalog item
// @Summary      Create item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateItemRequest  true  "Item payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem updates a catalog item. Changing the rate does not rewrite
// any existing bill line; see the price resync endpoint for that.
// @Summary      Update item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Item ID"
// @Param        payload  body  service.UpdateItemRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem deletes an item that no bill line references
// @Summary      Delete item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.itemService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Item deleted successfully"}))
}
