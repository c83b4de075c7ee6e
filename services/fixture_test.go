package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"foodrunner-api/config"
	"foodrunner-api/logger"
	"foodrunner-api/models"
	"foodrunner-api/notify"
	"foodrunner-api/policy"
	"foodrunner-api/store/gormstore"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []notify.StatusEvent
}

func (r *eventRecorder) Name() string { return "recorder" }

func (r *eventRecorder) Notify(_ context.Context, ev notify.StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type fixture struct {
	store   *gormstore.Store
	orders  *OrderService
	catalog *CatalogService
	hub     *notify.Hub
	events  *eventRecorder

	customer policy.Principal
	other    policy.Principal
	owner    policy.Principal
	rival    policy.Principal
	admin    policy.Principal

	restaurant *models.Restaurant
	itemA      *models.MenuItem
	itemB      *models.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	st := gormstore.New(db)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	log := logger.Discard()
	events := &eventRecorder{}
	hub := notify.NewHub(log)
	hub.Subscribe(events)
	t.Cleanup(hub.Close)

	f := &fixture{
		store:    st,
		orders:   NewOrderService(st, st, st, hub, log),
		catalog:  NewCatalogService(st, st),
		hub:      hub,
		events:   events,
		customer: policy.Principal{UserID: "cust-1", Role: models.RoleCustomer},
		other:    policy.Principal{UserID: "cust-2", Role: models.RoleCustomer},
		owner:    policy.Principal{UserID: "owner-1", Role: models.RoleRestaurant},
		rival:    policy.Principal{UserID: "owner-2", Role: models.RoleRestaurant},
		admin:    policy.Principal{UserID: "admin-1", Role: models.RoleAdmin},
	}

	ctx := context.Background()
	f.restaurant, err = f.catalog.CreateRestaurant(ctx, f.owner, RestaurantInput{
		Name:    ptr("Luigi's"),
		Cuisine: []string{"Italian", "Pizza"},
	})
	require.NoError(t, err)

	f.itemA = f.addItem(t, "Margherita", 10.00, models.CategoryMain)
	f.itemB = f.addItem(t, "Tiramisu", 5.00, models.CategoryDessert)
	return f
}

func (f *fixture) addItem(t *testing.T, name string, price float64, cat models.MenuCategory) *models.MenuItem {
	t.Helper()
	m, err := f.catalog.CreateMenuItem(context.Background(), f.owner, f.restaurant.ID, MenuItemInput{
		Name:     ptr(name),
		Price:    ptr(price),
		Category: ptr(cat),
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) placeOrder(t *testing.T) *models.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), f.customer, CreateOrderInput{
		RestaurantID:    f.restaurant.ID,
		Items:           []OrderLineInput{{MenuItemID: f.itemA.ID, Quantity: 2}, {MenuItemID: f.itemB.ID, Quantity: 1}},
		DeliveryAddress: "742 Evergreen Terrace",
	})
	require.NoError(t, err)
	return o
}

func ptr[T any](v T) *T { return &v }
