package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrunner-api/middleware"
	"foodrunner-api/models"
	"foodrunner-api/services"
)

type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	RestaurantID    string               `json:"restaurant_id" binding:"required"`
	Items           []OrderLineRequest   `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string               `json:"delivery_address" binding:"required"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Notes           string               `json:"notes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// PlaceOrder creates a new order (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "create_order", err)
		return
	}
	lines := make([]services.OrderLineInput, len(req.Items))
	for i, it := range req.Items {
		lines[i] = services.OrderLineInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}
	order, err := h.orders.Create(c.Request.Context(), middleware.GetPrincipal(c), services.CreateOrderInput{
		RestaurantID:    req.RestaurantID,
		Items:           lines,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		h.fail(c, "create_order", err)
		return
	}
	h.log.Info("order_created", requestID(c), "Order placed")
	ok(c, http.StatusCreated, order)
}

// ListOrders returns the orders visible to the caller's role
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.fail(c, "list_orders", err)
		return
	}
	list(c, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		h.fail(c, "get_order", err)
		return
	}
	ok(c, http.StatusOK, order)
}

// TrackOrder reports progress and an estimated delivery time
func (h *Handler) TrackOrder(c *gin.Context) {
	tracking, err := h.orders.Track(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		h.fail(c, "track_order", err)
		return
	}
	ok(c, http.StatusOK, tracking)
}

// CancelOrder cancels an order. The body with a reason is optional.
func (h *Handler) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := bind(c, &req); err != nil {
			h.fail(c, "cancel_order", err)
			return
		}
	}
	order, err := h.orders.Cancel(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, "cancel_order", err)
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *Handler) UserOrders(c *gin.Context) {
	orders, err := h.orders.ListByUser(c.Request.Context(), middleware.GetPrincipal(c), c.Param("userId"))
	if err != nil {
		h.fail(c, "list_user_orders", err)
		return
	}
	list(c, orders)
}
