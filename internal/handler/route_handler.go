package handler

import (
	"net/http"

	"billing/internal/middleware"
	"billing/internal/service"
	"billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	routeService service.RouteService
}

func NewRouteHandler(routeService service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

func (h *RouteHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/api/routes")
	{
		routes.GET("", h.ListRoutes)
		routes.POST("", middleware.RequireAuth(), h.CreateRoute)
		routes.PUT("/:id", middleware.RequireAuth(), h.UpdateRoute)
		routes.DELETE("/:id", middleware.RequireAuth(), h.DeleteRoute)
	}
}

// ListRoutes returns all routes ordered by name
// @Summary      List routes
// @Tags         routes
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/routes [get]
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeService.GetRoutes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, routes))
}

// CreateRoute creates a new route
// @Summary      Create route
// @Tags         routes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRouteRequest  true  "Route payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/routes [post]
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req service.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, route))
}

// UpdateRoute updates an existing route
// @Summary      Update route
// @Tags         routes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Route ID"
// @Param        payload  body  service.UpdateRouteRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/routes/{id} [put]
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	var req service.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	route, err := h.routeService.UpdateRoute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, route))
}

// DeleteRoute deletes a route that no vendor references
// @Summary      Delete route
// @Tags         routes
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Route ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/routes/{id} [delete]
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeService.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Route deleted successfully"}))
}
