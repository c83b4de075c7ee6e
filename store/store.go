// Package store defines the persistence boundary. The gormstore and
// mongostore packages implement it for relational and document databases.
package store

import (
	"context"
	"errors"

	"foodrunner-api/models"
	"foodrunner-api/query"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

type Restaurants interface {
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error
	RestaurantByID(ctx context.Context, id string) (*models.Restaurant, error)
	// ListRestaurants returns one page and the number of rows matching the
	// query's conditions.
	ListRestaurants(ctx context.Context, q *query.Query) ([]models.Restaurant, int64, error)
	// RestaurantsByCuisine matches term as a case-insensitive substring of
	// any cuisine tag.
	RestaurantsByCuisine(ctx context.Context, term string) ([]models.Restaurant, error)
	RestaurantIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	UpdateRestaurant(ctx context.Context, r *models.Restaurant) error
	// DeleteRestaurant removes the restaurant and all of its menu items.
	DeleteRestaurant(ctx context.Context, id string) error
}

type Menu interface {
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error)
	MenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
	ListMenuItems(ctx context.Context, q *query.Query) ([]models.MenuItem, int64, error)
	UpdateMenuItem(ctx context.Context, m *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error
}

// OrderFilter narrows ListOrders. A nil RestaurantIDs means any restaurant;
// an empty non-nil slice matches nothing.
type OrderFilter struct {
	UserID        string
	RestaurantIDs []string
	Statuses      []models.OrderStatus
}

type Orders interface {
	// CreateOrder stores the order with its items and history atomically.
	CreateOrder(ctx context.Context, o *models.Order) error
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns matching orders, newest first.
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus moves order id from change.FromStatus to
	// change.ToStatus and appends change to its history. It fails with
	// ErrStatusConflict when the stored status is no longer FromStatus.
	UpdateOrderStatus(ctx context.Context, id string, change models.StatusChange) error
}

type Store interface {
	Users
	Restaurants
	Menu
	Orders
	Close(ctx context.Context) error
}
