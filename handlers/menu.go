package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrunner-api/middleware"
	"foodrunner-api/models"
	"foodrunner-api/services"
)

type MenuItemRequest struct {
	Name            *string              `json:"name"`
	Description     *string              `json:"description"`
	Price           *float64             `json:"price"`
	Image           *string              `json:"image"`
	Category        *models.MenuCategory `json:"category"`
	IsVegetarian    *bool                `json:"is_vegetarian"`
	IsVegan         *bool                `json:"is_vegan"`
	IsGlutenFree    *bool                `json:"is_gluten_free"`
	SpiceLevel      *int                 `json:"spice_level"`
	Calories        *int                 `json:"calories"`
	PreparationTime *int                 `json:"preparation_time"`
	Featured        *bool                `json:"featured"`
	InStock         *bool                `json:"in_stock"`
}

func (r MenuItemRequest) input() services.MenuItemInput {
	return services.MenuItemInput{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Image:           r.Image,
		Category:        r.Category,
		IsVegetarian:    r.IsVegetarian,
		IsVegan:         r.IsVegan,
		IsGlutenFree:    r.IsGlutenFree,
		SpiceLevel:      r.SpiceLevel,
		Calories:        r.Calories,
		PreparationTime: r.PreparationTime,
		Featured:        r.Featured,
		InStock:         r.InStock,
	}
}

func (h *Handler) ListMenu(c *gin.Context) {
	p, err := h.catalog.ListMenu(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.fail(c, "list_menu", err)
		return
	}
	page(c, p)
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	item, err := h.catalog.MenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_menu_item", err)
		return
	}
	ok(c, http.StatusOK, item)
}

func (h *Handler) FeaturedMenu(c *gin.Context) {
	rows, err := h.catalog.Featured(c.Request.Context())
	if err != nil {
		h.fail(c, "featured_menu", err)
		return
	}
	list(c, rows)
}

func (h *Handler) MenuByCategory(c *gin.Context) {
	rows, err := h.catalog.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.fail(c, "menu_by_category", err)
		return
	}
	list(c, rows)
}

// RestaurantMenu returns the in-stock menu of one restaurant
func (h *Handler) RestaurantMenu(c *gin.Context) {
	rows, err := h.catalog.RestaurantMenu(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		h.fail(c, "restaurant_menu", err)
		return
	}
	list(c, rows)
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "create_menu_item", err)
		return
	}
	item, err := h.catalog.CreateMenuItem(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, "create_menu_item", err)
		return
	}
	ok(c, http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, "update_menu_item", err)
		return
	}
	item, err := h.catalog.UpdateMenuItem(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, "update_menu_item", err)
		return
	}
	ok(c, http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.catalog.DeleteMenuItem(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		h.fail(c, "delete_menu_item", err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}
