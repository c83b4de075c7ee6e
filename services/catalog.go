package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"foodrunner-api/apperror"
	"foodrunner-api/models"
	"foodrunner-api/policy"
	"foodrunner-api/query"
	"foodrunner-api/store"
)

const (
	DefaultRestaurantLimit = 10
	DefaultMenuLimit       = 25
	TopRatedThreshold      = 4.5
	DefaultTopRatedLimit   = 5
	FeaturedLimit          = 10
	defaultPrepMinutes     = 15
)

var RestaurantSchema = query.Schema{
	"name":           {Kind: query.String, Sortable: true},
	"cuisine":        {Kind: query.StringList},
	"average_rating": {Kind: query.Number, Sortable: true},
	"price_range":    {Kind: query.String, Sortable: true},
	"is_open":        {Kind: query.Bool},
	"owner_id":       {Kind: query.String},
	"created_at":     {Kind: query.Time, Sortable: true},
	"updated_at":     {Kind: query.Time, Sortable: true},
	"description":    {NoFilter: true},
	"website":        {NoFilter: true},
	"phone":          {NoFilter: true},
	"email":          {NoFilter: true},
	"address":        {NoFilter: true},
	"location":       {NoFilter: true},
	"photo":          {NoFilter: true},
	"delivery_time":  {NoFilter: true},
	"opening_hours":  {NoFilter: true},
}

var MenuSchema = query.Schema{
	"name":             {Kind: query.String, Sortable: true},
	"price":            {Kind: query.Number, Sortable: true},
	"category":         {Kind: query.String, Sortable: true},
	"restaurant_id":    {Kind: query.String},
	"is_vegetarian":    {Kind: query.Bool},
	"is_vegan":         {Kind: query.Bool},
	"is_gluten_free":   {Kind: query.Bool},
	"spice_level":      {Kind: query.Number, Sortable: true},
	"calories":         {Kind: query.Number, Sortable: true},
	"preparation_time": {Kind: query.Number, Sortable: true},
	"featured":         {Kind: query.Bool},
	"in_stock":         {Kind: query.Bool},
	"created_at":       {Kind: query.Time, Sortable: true},
	"updated_at":       {Kind: query.Time, Sortable: true},
	"description":      {NoFilter: true},
	"image":            {NoFilter: true},
}

type CatalogService struct {
	restaurants store.Restaurants
	menu        store.Menu
}

func NewCatalogService(restaurants store.Restaurants, menu store.Menu) *CatalogService {
	return &CatalogService{restaurants: restaurants, menu: menu}
}

func listPage[T any](q *query.Query, rows []T, total int64) (*Page, error) {
	if rows == nil {
		rows = []T{}
	}
	data, err := query.Project(rows, q.Select)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to project fields")
	}
	return &Page{Data: data, Count: len(rows), Pagination: q.Paginate(total)}, nil
}

// ---- restaurants ----

func (s *CatalogService) ListRestaurants(ctx context.Context, params url.Values) (*Page, error) {
	q, err := query.Parse(RestaurantSchema, params, DefaultRestaurantLimit)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.restaurants.ListRestaurants(ctx, q)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return listPage(q, rows, total)
}

func (s *CatalogService) Restaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	r, err := s.restaurants.RestaurantByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Restaurant not found with id of "+id)
	}
	return r, nil
}

// TopRated lists restaurants rated at least 4.5, best first.
func (s *CatalogService) TopRated(ctx context.Context, limitParam string) ([]models.Restaurant, error) {
	limit := DefaultTopRatedLimit
	if n, err := strconv.Atoi(limitParam); err == nil && n > 0 {
		limit = min(n, query.MaxLimit)
	}
	q := &query.Query{
		Conditions: []query.Condition{
			{Field: "average_rating", Kind: query.Number, Op: query.Gte, Value: TopRatedThreshold},
		},
		Sort:  []query.SortField{{Field: "average_rating", Desc: true}},
		Page:  1,
		Limit: limit,
	}
	rows, _, err := s.restaurants.ListRestaurants(ctx, q)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return rows, nil
}

func (s *CatalogService) ByCuisine(ctx context.Context, cuisine string) ([]models.Restaurant, error) {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return nil, apperror.InvalidInput("Cuisine type is required")
	}
	rows, err := s.restaurants.RestaurantsByCuisine(ctx, cuisine)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return rows, nil
}

type RestaurantInput struct {
	Name          *string
	Description   *string
	Website       *string
	Phone         *string
	Email         *string
	Address       *models.RestaurantAddress
	Location      *models.GeoPoint
	Cuisine       []string
	AverageRating *float64
	Photo         *string
	PriceRange    *string
	DeliveryTime  *models.DeliveryWindow
	IsOpen        *bool
	OpeningHours  map[string]models.OpeningHours
}

func (in RestaurantInput) apply(r *models.Restaurant) error {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Website != nil {
		r.Website = *in.Website
	}
	if in.Phone != nil {
		r.Phone = *in.Phone
	}
	if in.Email != nil {
		r.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		r.Address = *in.Address
	}
	if in.Location != nil {
		r.Location = *in.Location
	}
	if in.Cuisine != nil {
		r.Cuisine = in.Cuisine
	}
	if in.AverageRating != nil {
		r.AverageRating = *in.AverageRating
	}
	if in.Photo != nil {
		r.Photo = *in.Photo
	}
	if in.PriceRange != nil {
		r.PriceRange = *in.PriceRange
	}
	if in.DeliveryTime != nil {
		r.DeliveryTime = *in.DeliveryTime
	}
	if in.IsOpen != nil {
		r.IsOpen = *in.IsOpen
	}
	if in.OpeningHours != nil {
		r.OpeningHours = in.OpeningHours
	}
	return validateRestaurant(r)
}

func validateRestaurant(r *models.Restaurant) error {
	switch {
	case r.Name == "":
		return apperror.InvalidInput("Please add a name")
	case len(r.Name) > 50:
		return apperror.InvalidInput("Name can not be more than 50 characters")
	case len(r.Description) > 500:
		return apperror.InvalidInput("Description can not be more than 500 characters")
	case r.AverageRating != 0 && (r.AverageRating < 1 || r.AverageRating > 5):
		return apperror.InvalidInput("Rating must be between 1 and 5")
	case r.DeliveryTime.Min < 0 || r.DeliveryTime.Max < r.DeliveryTime.Min:
		return apperror.InvalidInput("Delivery time max must not be below min")
	}
	if r.Email != "" {
		if err := validate.Var(r.Email, "email"); err != nil {
			return apperror.InvalidInput("Please add a valid email")
		}
	}
	if r.Website != "" {
		if err := validate.Var(r.Website, "url"); err != nil {
			return apperror.InvalidInput("Please use a valid URL with HTTP or HTTPS")
		}
	}
	validRange := false
	for _, pr := range models.PriceRanges {
		if r.PriceRange == pr {
			validRange = true
		}
	}
	if !validRange {
		return apperror.InvalidInput("Price range must be one of $, $$, $$$, $$$$")
	}
	for day := range r.OpeningHours {
		known := false
		for _, d := range models.Weekdays {
			if day == d {
				known = true
			}
		}
		if !known {
			return apperror.InvalidInput("Unknown weekday " + day + " in opening hours")
		}
	}
	return nil
}

// CreateRestaurant registers a restaurant owned by the caller.
func (s *CatalogService) CreateRestaurant(ctx context.Context, p policy.Principal, in RestaurantInput) (*models.Restaurant, error) {
	if err := policy.Authorize(p, policy.CreateRestaurant, policy.Resource{}); err != nil {
		return nil, err
	}
	r := &models.Restaurant{
		OwnerID:    p.UserID,
		PriceRange: "$$",
		IsOpen:     true,
		Cuisine:    []string{},
	}
	if err := in.apply(r); err != nil {
		return nil, err
	}
	if err := s.restaurants.CreateRestaurant(ctx, r); err != nil {
		return nil, storeErr(err, "")
	}
	return r, nil
}

// owned loads a restaurant and checks the caller may manage it.
func (s *CatalogService) owned(ctx context.Context, p policy.Principal, id string) (*models.Restaurant, error) {
	r, err := s.Restaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ManageRestaurant, policy.Resource{RestaurantOwnerID: r.OwnerID}); err != nil {
		return nil, apperror.Forbidden("User " + p.UserID + " is not authorized to modify this restaurant")
	}
	return r, nil
}

func (s *CatalogService) UpdateRestaurant(ctx context.Context, p policy.Principal, id string, in RestaurantInput) (*models.Restaurant, error) {
	r, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(r); err != nil {
		return nil, err
	}
	if err := s.restaurants.UpdateRestaurant(ctx, r); err != nil {
		return nil, storeErr(err, "Restaurant not found with id of "+id)
	}
	return r, nil
}

// DeleteRestaurant removes the restaurant together with its menu.
func (s *CatalogService) DeleteRestaurant(ctx context.Context, p policy.Principal, id string) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	return storeErr(s.restaurants.DeleteRestaurant(ctx, id), "Restaurant not found with id of "+id)
}

// ---- menu ----

func (s *CatalogService) ListMenu(ctx context.Context, params url.Values) (*Page, error) {
	q, err := query.Parse(MenuSchema, params, DefaultMenuLimit)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.menu.ListMenuItems(ctx, q)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return listPage(q, rows, total)
}

func (s *CatalogService) MenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	m, err := s.menu.MenuItemByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Menu item not found with id of "+id)
	}
	return m, nil
}

func inStock() query.Condition {
	return query.Condition{Field: "in_stock", Kind: query.Bool, Op: query.Eq, Value: true}
}

func (s *CatalogService) menuWhere(ctx context.Context, limit int, sort []query.SortField, conds ...query.Condition) ([]models.MenuItem, error) {
	q := &query.Query{Conditions: conds, Sort: sort, Page: 1, Limit: limit}
	rows, _, err := s.menu.ListMenuItems(ctx, q)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return rows, nil
}

// Featured lists up to ten featured items that are in stock.
func (s *CatalogService) Featured(ctx context.Context) ([]models.MenuItem, error) {
	return s.menuWhere(ctx, FeaturedLimit,
		[]query.SortField{{Field: "created_at", Desc: true}},
		query.Condition{Field: "featured", Kind: query.Bool, Op: query.Eq, Value: true},
		inStock(),
	)
}

// ByCategory lists in-stock items of one category, cheapest first.
func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	cat := models.MenuCategory(strings.ToLower(category))
	if !cat.Valid() {
		return nil, apperror.InvalidInput("Unknown menu category " + category)
	}
	return s.menuWhere(ctx, query.MaxLimit,
		[]query.SortField{{Field: "price"}},
		query.Condition{Field: "category", Kind: query.String, Op: query.Eq, Value: string(cat)},
		inStock(),
	)
}

// RestaurantMenu lists a restaurant's in-stock items grouped by category.
func (s *CatalogService) RestaurantMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	if _, err := s.Restaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.menuWhere(ctx, query.MaxLimit,
		[]query.SortField{{Field: "category"}, {Field: "name"}},
		query.Condition{Field: "restaurant_id", Kind: query.String, Op: query.Eq, Value: restaurantID},
		inStock(),
	)
}

type MenuItemInput struct {
	Name            *string
	Description     *string
	Price           *float64
	Image           *string
	Category        *models.MenuCategory
	IsVegetarian    *bool
	IsVegan         *bool
	IsGlutenFree    *bool
	SpiceLevel      *int
	Calories        *int
	PreparationTime *int
	Featured        *bool
	InStock         *bool
}

func (in MenuItemInput) apply(m *models.MenuItem) error {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
	if in.Image != nil {
		m.Image = *in.Image
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.IsVegetarian != nil {
		m.IsVegetarian = *in.IsVegetarian
	}
	if in.IsVegan != nil {
		m.IsVegan = *in.IsVegan
	}
	if in.IsGlutenFree != nil {
		m.IsGlutenFree = *in.IsGlutenFree
	}
	if in.SpiceLevel != nil {
		m.SpiceLevel = *in.SpiceLevel
	}
	if in.Calories != nil {
		m.Calories = *in.Calories
	}
	if in.PreparationTime != nil {
		m.PreparationTime = *in.PreparationTime
	}
	if in.Featured != nil {
		m.Featured = *in.Featured
	}
	if in.InStock != nil {
		m.InStock = *in.InStock
	}

	switch {
	case m.Name == "":
		return apperror.InvalidInput("Please add a name")
	case len(m.Name) > 100:
		return apperror.InvalidInput("Name can not be more than 100 characters")
	case m.Price < 0:
		return apperror.InvalidInput("Price must be positive")
	case !m.Category.Valid():
		return apperror.InvalidInput("Please select a valid category")
	case m.SpiceLevel < 0 || m.SpiceLevel > 5:
		return apperror.InvalidInput("Spice level must be between 0 and 5")
	case m.Calories < 0 || m.PreparationTime < 0:
		return apperror.InvalidInput("Calories and preparation time cannot be negative")
	}
	return nil
}

// CreateMenuItem adds an item to a restaurant the caller manages.
func (s *CatalogService) CreateMenuItem(ctx context.Context, p policy.Principal, restaurantID string, in MenuItemInput) (*models.MenuItem, error) {
	if _, err := s.owned(ctx, p, restaurantID); err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, apperror.InvalidInput("Please add a price")
	}
	m := &models.MenuItem{
		RestaurantID:    restaurantID,
		PreparationTime: defaultPrepMinutes,
		InStock:         true,
	}
	if err := in.apply(m); err != nil {
		return nil, err
	}
	if err := s.menu.CreateMenuItem(ctx, m); err != nil {
		return nil, menuErr(err, m.Name)
	}
	return m, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, p policy.Principal, id string, in MenuItemInput) (*models.MenuItem, error) {
	m, err := s.MenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, p, m.RestaurantID); err != nil {
		return nil, err
	}
	if err := in.apply(m); err != nil {
		return nil, err
	}
	if err := s.menu.UpdateMenuItem(ctx, m); err != nil {
		return nil, menuErr(err, m.Name)
	}
	return m, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, p policy.Principal, id string) error {
	m, err := s.MenuItem(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, p, m.RestaurantID); err != nil {
		return err
	}
	return storeErr(s.menu.DeleteMenuItem(ctx, id), "Menu item not found with id of "+id)
}

func menuErr(err error, name string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperror.Conflict("This restaurant already has a menu item named " + name)
	}
	return storeErr(err, "Menu item not found")
}
