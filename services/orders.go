package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"foodrunner-api/apperror"
	"foodrunner-api/logger"
	"foodrunner-api/models"
	"foodrunner-api/notify"
	"foodrunner-api/policy"
	"foodrunner-api/pricing"
	"foodrunner-api/statemachine"
	"foodrunner-api/store"
)

type OrderService struct {
	orders      store.Orders
	restaurants store.Restaurants
	menu        store.Menu
	hub         *notify.Hub
	log         *logger.Logger
	now         func() time.Time
}

// NewOrderService wires the order workflow. hub may be nil.
func NewOrderService(orders store.Orders, restaurants store.Restaurants, menu store.Menu, hub *notify.Hub, log *logger.Logger) *OrderService {
	return &OrderService{
		orders:      orders,
		restaurants: restaurants,
		menu:        menu,
		hub:         hub,
		log:         log,
		now:         time.Now,
	}
}

type OrderLineInput struct {
	MenuItemID string
	Quantity   int
}

type CreateOrderInput struct {
	RestaurantID    string
	Items           []OrderLineInput
	DeliveryAddress string
	PaymentMethod   models.PaymentMethod
	Notes           string
}

// Create prices and stores a new order for the calling customer. Nothing is
// written unless every line validates.
func (s *OrderService) Create(ctx context.Context, p policy.Principal, in CreateOrderInput) (*models.Order, error) {
	if err := policy.Authorize(p, policy.CreateOrder, policy.Resource{}); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, apperror.InvalidInput("Order must contain at least one item")
	}
	if strings.TrimSpace(in.RestaurantID) == "" {
		return nil, apperror.InvalidInput("Please add a restaurant")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return nil, apperror.InvalidInput("Please add a delivery address")
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = models.PaymentCashOnDelivery
	}
	if !payment.Valid() {
		return nil, apperror.InvalidInput("Payment method must be cash_on_delivery, card or wallet")
	}

	ids := make([]string, 0, len(in.Items))
	seen := map[string]bool{}
	for _, line := range in.Items {
		if line.MenuItemID == "" {
			return nil, apperror.InvalidInput("Each item needs a menu_item_id")
		}
		if line.Quantity < 1 {
			return nil, apperror.InvalidInput("Quantity must be at least 1")
		}
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	restaurant, err := s.restaurants.RestaurantByID(ctx, in.RestaurantID)
	if err != nil {
		return nil, storeErr(err, "Restaurant not found with id of "+in.RestaurantID)
	}
	if !restaurant.IsOpen {
		return nil, apperror.InvalidInput("Restaurant is currently closed")
	}

	found, err := s.menu.MenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "")
	}
	byID := make(map[string]models.MenuItem, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	lines := make([]pricing.Line, 0, len(in.Items))
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		m, ok := byID[line.MenuItemID]
		if !ok {
			return nil, apperror.NotFound("Menu item not found with id of " + line.MenuItemID)
		}
		if m.RestaurantID != restaurant.ID {
			return nil, apperror.InvalidInput("Menu item '" + m.Name + "' does not belong to this restaurant")
		}
		if !m.InStock {
			return nil, apperror.InvalidInput("Menu item '" + m.Name + "' is out of stock")
		}
		lines = append(lines, pricing.Line{Price: m.Price, Quantity: line.Quantity})
		items = append(items, models.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Quantity:   line.Quantity,
		})
	}

	quote, err := pricing.Price(lines)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].LineTotal = quote.LineTotals[i]
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:              models.NewID(),
		UserID:          p.UserID,
		RestaurantID:    restaurant.ID,
		Items:           items,
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		PaymentMethod:   payment,
		Notes:           in.Notes,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		DeliveryFee:     quote.DeliveryFee,
		Total:           quote.Total,
		Status:          models.StatusPending,
		StatusUpdatedAt: &now,
		StatusUpdatedBy: p.UserID,
		StatusHistory: []models.StatusChange{{
			ToStatus:  models.StatusPending,
			ChangedBy: p.UserID,
			Note:      "Order placed by customer",
			ChangedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, storeErr(err, "")
	}

	s.log.Info("order_created", "", "Order placed",
		slog.String("order_id", order.ID),
		slog.String("restaurant_id", order.RestaurantID),
		slog.Float64("total", order.Total),
	)
	return order, nil
}

// load fetches an order together with the ownership facts policy needs.
// The restaurant is nil when it has since been deleted.
func (s *OrderService) load(ctx context.Context, id string) (*models.Order, *models.Restaurant, policy.Resource, error) {
	order, err := s.orders.OrderByID(ctx, id)
	if err != nil {
		return nil, nil, policy.Resource{}, storeErr(err, "Order not found with id of "+id)
	}
	res := policy.Resource{UserID: order.UserID}
	restaurant, err := s.restaurants.RestaurantByID(ctx, order.RestaurantID)
	switch {
	case err == nil:
		res.RestaurantOwnerID = restaurant.OwnerID
	case errors.Is(err, store.ErrNotFound):
		restaurant = nil
	default:
		return nil, nil, policy.Resource{}, storeErr(err, "")
	}
	return order, restaurant, res, nil
}

// Get returns an order visible to the caller: its customer, the owner of its
// restaurant, or an admin.
func (s *OrderService) Get(ctx context.Context, p policy.Principal, id string) (*models.Order, error) {
	order, _, res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ReadOrder, res); err != nil {
		return nil, apperror.Forbidden("Not authorized to access this order")
	}
	return order, nil
}

type StatusInput struct {
	Status string
	Note   string
	// Force lets an admin set any status regardless of the workflow.
	Force bool
}

// UpdateStatus moves an order through its workflow on behalf of p.
func (s *OrderService) UpdateStatus(ctx context.Context, p policy.Principal, id string, in StatusInput) (*models.Order, error) {
	target := models.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !target.Valid() {
		return nil, apperror.InvalidInput("Invalid status value: " + in.Status)
	}

	order, _, res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.UpdateOrderStatus, res); err != nil {
		return nil, apperror.Forbidden("Not authorized to update this order")
	}
	actor, ok := policy.OrderActor(p, res)
	if !ok {
		return nil, apperror.Forbidden("Not authorized to update this order")
	}

	note := in.Note
	switch {
	case in.Force && actor != statemachine.ActorAdmin:
		return nil, apperror.Forbidden("Only admins can force a status")
	case in.Force:
		if order.Status == target {
			return nil, apperror.InvalidInput("Order is already " + string(target))
		}
		note = strings.TrimSpace("[ADMIN OVERRIDE] " + note)
	default:
		if err := statemachine.CanTransition(order.Status, target, actor); err != nil {
			return nil, err
		}
	}

	change := models.StatusChange{
		FromStatus: order.Status,
		ToStatus:   target,
		ChangedBy:  p.UserID,
		Note:       note,
		ChangedAt:  s.now().UTC(),
	}
	if err := s.orders.UpdateOrderStatus(ctx, order.ID, change); err != nil {
		return nil, storeErr(err, "Order not found with id of "+id)
	}

	if s.hub != nil {
		s.hub.Notify(ctx, notify.StatusEvent{
			OrderID:      order.ID,
			UserID:       order.UserID,
			RestaurantID: order.RestaurantID,
			OldStatus:    change.FromStatus,
			NewStatus:    change.ToStatus,
			ChangedBy:    change.ChangedBy,
			Note:         change.Note,
			ChangedAt:    change.ChangedAt,
		})
	}

	updated, err := s.orders.OrderByID(ctx, order.ID)
	if err != nil {
		return nil, storeErr(err, "Order not found with id of "+id)
	}
	return updated, nil
}

// Cancel is the status update to cancelled with an optional reason.
func (s *OrderService) Cancel(ctx context.Context, p policy.Principal, id, reason string) (*models.Order, error) {
	return s.UpdateStatus(ctx, p, id, StatusInput{Status: string(models.StatusCancelled), Note: reason})
}

type Tracking struct {
	OrderID          string                `json:"order_id"`
	RestaurantID     string                `json:"restaurant_id"`
	Status           models.OrderStatus    `json:"status"`
	StatusUpdatedAt  *time.Time            `json:"status_updated_at,omitempty"`
	StatusHistory    []models.StatusChange `json:"status_history"`
	NextStatuses     []models.OrderStatus  `json:"next_statuses"`
	IsTerminal       bool                  `json:"is_terminal"`
	ElapsedMinutes   int                   `json:"elapsed_minutes"`
	EstimatedMinutes int                   `json:"estimated_minutes"`
}

// Track summarises where an order is in its lifecycle. The estimate is a
// base of 30 minutes plus 5 per line item, or the restaurant's advertised
// maximum delivery time when that is longer.
func (s *OrderService) Track(ctx context.Context, p policy.Principal, id string) (*Tracking, error) {
	order, restaurant, res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ReadOrder, res); err != nil {
		return nil, apperror.Forbidden("Not authorized to access this order")
	}

	estimate := 30 + 5*len(order.Items)
	if restaurant != nil && restaurant.DeliveryTime.Max > estimate {
		estimate = restaurant.DeliveryTime.Max
	}

	next := statemachine.ValidTransitionsFrom(order.Status)
	if next == nil {
		next = []models.OrderStatus{}
	}
	return &Tracking{
		OrderID:          order.ID,
		Status:           order.Status,
		StatusHistory:    order.StatusHistory,
		NextStatuses:     next,
		IsTerminal:       statemachine.IsTerminal(order.Status),
		ElapsedMinutes:   int(s.now().Sub(order.CreatedAt).Minutes()),
		EstimatedMinutes: estimate,
		StatusUpdatedAt:  order.StatusUpdatedAt,
		RestaurantID:     order.RestaurantID,
	}, nil
}

// List returns the orders the caller can see: their own as a customer, those
// of their restaurants as an owner, everything as an admin.
func (s *OrderService) List(ctx context.Context, p policy.Principal) ([]models.Order, error) {
	var f store.OrderFilter
	switch p.Role {
	case models.RoleAdmin:
	case models.RoleRestaurant:
		ids, err := s.restaurants.RestaurantIDsByOwner(ctx, p.UserID)
		if err != nil {
			return nil, storeErr(err, "")
		}
		f.RestaurantIDs = ids
	default:
		f.UserID = p.UserID
	}
	orders, err := s.orders.ListOrders(ctx, f)
	return orders, storeErr(err, "")
}

func (s *OrderService) ListByUser(ctx context.Context, p policy.Principal, userID string) ([]models.Order, error) {
	if err := policy.Authorize(p, policy.ListUserOrders, policy.Resource{UserID: userID}); err != nil {
		return nil, apperror.Forbidden("Not authorized to access these orders")
	}
	orders, err := s.orders.ListOrders(ctx, store.OrderFilter{UserID: userID})
	return orders, storeErr(err, "")
}

func (s *OrderService) ownedRestaurant(ctx context.Context, p policy.Principal, restaurantID string) error {
	r, err := s.restaurants.RestaurantByID(ctx, restaurantID)
	if err != nil {
		return storeErr(err, "Restaurant not found with id of "+restaurantID)
	}
	if err := policy.Authorize(p, policy.ListRestaurantOrders, policy.Resource{RestaurantOwnerID: r.OwnerID}); err != nil {
		return apperror.Forbidden("Not authorized to access orders of this restaurant")
	}
	return nil
}

// ListByRestaurant lists a restaurant's orders; activeOnly keeps those the
// kitchen still has to act on.
func (s *OrderService) ListByRestaurant(ctx context.Context, p policy.Principal, restaurantID string, activeOnly bool) ([]models.Order, error) {
	if err := s.ownedRestaurant(ctx, p, restaurantID); err != nil {
		return nil, err
	}
	f := store.OrderFilter{RestaurantIDs: []string{restaurantID}}
	if activeOnly {
		f.Statuses = models.ActiveStatuses
	}
	orders, err := s.orders.ListOrders(ctx, f)
	return orders, storeErr(err, "")
}

type Analytics struct {
	RestaurantID    string                     `json:"restaurant_id"`
	TodayOrders     int                        `json:"today_orders"`
	TodayRevenue    float64                    `json:"today_revenue"`
	TotalOrders     int                        `json:"total_orders"`
	TotalRevenue    float64                    `json:"total_revenue"`
	UniqueCustomers int                        `json:"unique_customers"`
	StatusCounts    map[models.OrderStatus]int `json:"status_counts"`
}

// Analytics aggregates a restaurant's orders. Revenue excludes cancelled
// orders; "today" starts at midnight UTC.
func (s *OrderService) Analytics(ctx context.Context, p policy.Principal, restaurantID string) (*Analytics, error) {
	if err := s.ownedRestaurant(ctx, p, restaurantID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx, store.OrderFilter{RestaurantIDs: []string{restaurantID}})
	if err != nil {
		return nil, storeErr(err, "")
	}

	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	a := &Analytics{
		RestaurantID: restaurantID,
		TotalOrders:  len(orders),
		StatusCounts: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
	}
	for _, st := range models.OrderStatuses {
		a.StatusCounts[st] = 0
	}

	customers := map[string]bool{}
	today, total := decimal.Zero, decimal.Zero
	for _, o := range orders {
		a.StatusCounts[o.Status]++
		customers[o.UserID] = true
		isToday := !o.CreatedAt.Before(midnight)
		if isToday {
			a.TodayOrders++
		}
		if o.Status == models.StatusCancelled {
			continue
		}
		amount := decimal.NewFromFloat(o.Total)
		total = total.Add(amount)
		if isToday {
			today = today.Add(amount)
		}
	}
	a.UniqueCustomers = len(customers)
	a.TodayRevenue = today.Round(2).InexactFloat64()
	a.TotalRevenue = total.Round(2).InexactFloat64()
	return a, nil
}
