package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrunner-api/middleware"
	"foodrunner-api/services"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
	Force  bool   `json:"force"`
}

// UpdateOrderStatus moves an order along its workflow. Admins may pass
// force to skip the workflow checks.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "update_order_status", err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), services.StatusInput{
		Status: req.Status,
		Note:   req.Note,
		Force:  req.Force,
	})
	if err != nil {
		h.fail(c, "update_order_status", err)
		return
	}
	h.log.Info("order_status_changed", requestID(c), "Order status updated",
		slog.String("order_id", order.ID),
		slog.String("status", string(order.Status)),
	)
	ok(c, http.StatusOK, order)
}

func (h *Handler) RestaurantOrders(c *gin.Context) {
	h.restaurantOrders(c, false)
}

// PendingRestaurantOrders lists orders the kitchen still has to act on
func (h *Handler) PendingRestaurantOrders(c *gin.Context) {
	h.restaurantOrders(c, true)
}

func (h *Handler) restaurantOrders(c *gin.Context, activeOnly bool) {
	orders, err := h.orders.ListByRestaurant(c.Request.Context(), middleware.GetPrincipal(c), c.Param("restaurantId"), activeOnly)
	if err != nil {
		h.fail(c, "list_restaurant_orders", err)
		return
	}
	list(c, orders)
}

func (h *Handler) RestaurantAnalytics(c *gin.Context) {
	stats, err := h.orders.Analytics(c.Request.Context(), middleware.GetPrincipal(c), c.Param("restaurantId"))
	if err != nil {
		h.fail(c, "restaurant_analytics", err)
		return
	}
	ok(c, http.StatusOK, stats)
}
