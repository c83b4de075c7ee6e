package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrunner-api/middleware"
	"foodrunner-api/models"
	"foodrunner-api/services"
)

type RestaurantRequest struct {
	Name          *string                        `json:"name"`
	Description   *string                        `json:"description"`
	Website       *string                        `json:"website"`
	Phone         *string                        `json:"phone"`
	Email         *string                        `json:"email"`
	Address       *models.RestaurantAddress      `json:"address"`
	Location      *models.GeoPoint               `json:"location"`
	Cuisine       []string                       `json:"cuisine"`
	AverageRating *float64                       `json:"average_rating"`
	Photo         *string                        `json:"photo"`
	PriceRange    *string                        `json:"price_range"`
	DeliveryTime  *models.DeliveryWindow         `json:"delivery_time"`
	IsOpen        *bool                          `json:"is_open"`
	OpeningHours  map[string]models.OpeningHours `json:"opening_hours"`
}

func (r RestaurantRequest) input() services.RestaurantInput {
	return services.RestaurantInput{
		Name:          r.Name,
		Description:   r.Description,
		Website:       r.Website,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Location:      r.Location,
		Cuisine:       r.Cuisine,
		AverageRating: r.AverageRating,
		Photo:         r.Photo,
		PriceRange:    r.PriceRange,
		DeliveryTime:  r.DeliveryTime,
		IsOpen:        r.IsOpen,
		OpeningHours:  r.OpeningHours,
	}
}

// ListRestaurants supports filtering, sorting, field selection and paging
func (h *Handler) ListRestaurants(c *gin.Context) {
	p, err := h.catalog.ListRestaurants(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.fail(c, "list_restaurants", err)
		return
	}
	page(c, p)
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	r, err := h.catalog.Restaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_restaurant", err)
		return
	}
	ok(c, http.StatusOK, r)
}

func (h *Handler) TopRatedRestaurants(c *gin.Context) {
	rows, err := h.catalog.TopRated(c.Request.Context(), c.Query("limit"))
	if err != nil {
		h.fail(c, "top_rated_restaurants", err)
		return
	}
	list(c, rows)
}

func (h *Handler) RestaurantsByCuisine(c *gin.Context) {
	rows, err := h.catalog.ByCuisine(c.Request.Context(), c.Param("cuisineType"))
	if err != nil {
		h.fail(c, "restaurants_by_cuisine", err)
		return
	}
	list(c, rows)
}

func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "create_restaurant", err)
		return
	}
	r, err := h.catalog.CreateRestaurant(c.Request.Context(), middleware.GetPrincipal(c), req.input())
	if err != nil {
		h.fail(c, "create_restaurant", err)
		return
	}
	ok(c, http.StatusCreated, r)
}

func (h *Handler) UpdateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "update_restaurant", err)
		return
	}
	r, err := h.catalog.UpdateRestaurant(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, "update_restaurant", err)
		return
	}
	ok(c, http.StatusOK, r)
}

// DeleteRestaurant removes the restaurant and its menu
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	if err := h.catalog.DeleteRestaurant(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		h.fail(c, "delete_restaurant", err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}
