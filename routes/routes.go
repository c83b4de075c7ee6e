package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"foodrunner-api/cache"
	"foodrunner-api/handlers"
	"foodrunner-api/middleware"
	"foodrunner-api/models"
)

// SetupRoutes mounts the API. responses may be nil, which disables caching.
func SetupRoutes(r *gin.Engine, h *handlers.Handler, tokens *middleware.TokenManager, responses *cache.Cache) {
	r.GET("/health", handlers.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("", handlers.Index)
	api.GET("/state-machine", handlers.GetStateMachineInfo)

	auth := tokens.AuthRequired()
	cached := responses.Responses()
	invalidate := responses.InvalidateOnWrite()

	// ── Restaurants ────────────────────────────────────────────────
	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", cached, h.ListRestaurants)
		restaurants.GET("/top-rated", cached, h.TopRatedRestaurants)
		restaurants.GET("/cuisine/:cuisineType", cached, h.RestaurantsByCuisine)
		restaurants.GET("/:id", cached, h.GetRestaurant)

		restaurants.POST("", auth, middleware.RoleRequired(models.RoleRestaurant, models.RoleAdmin), invalidate, h.CreateRestaurant)
		restaurants.PUT("/:id", auth, invalidate, h.UpdateRestaurant)
		restaurants.DELETE("/:id", auth, invalidate, h.DeleteRestaurant)
		restaurants.POST("/:id/menu", auth, middleware.RoleRequired(models.RoleRestaurant, models.RoleAdmin), invalidate, h.CreateMenuItem)
	}

	// ── Menu ───────────────────────────────────────────────────────
	menu := api.Group("/menu")
	{
		menu.GET("", cached, h.ListMenu)
		menu.GET("/featured", cached, h.FeaturedMenu)
		menu.GET("/category/:category", cached, h.MenuByCategory)
		menu.GET("/restaurant/:restaurantId", cached, h.RestaurantMenu)
		menu.GET("/:id", cached, h.GetMenuItem)

		menu.PUT("/:id", auth, invalidate, h.UpdateMenuItem)
		menu.DELETE("/:id", auth, invalidate, h.DeleteMenuItem)
	}

	// ── Auth ───────────────────────────────────────────────────────
	account := api.Group("/auth")
	{
		account.POST("/register", h.Register)
		account.POST("/login", h.Login)

		account.GET("/logout", auth, h.Logout)
		account.GET("/me", auth, h.Me)
		account.PUT("/updatedetails", auth, h.UpdateDetails)
		account.PUT("/updatepassword", auth, h.UpdatePassword)
		account.PUT("/documents/:kind", auth, middleware.RoleRequired(models.RoleRestaurant), h.UploadDocument)
		account.PUT("/users/:id/verification", auth, middleware.RoleRequired(models.RoleAdmin), h.SetVerification)
	}

	// ── Orders ─────────────────────────────────────────────────────
	orders := api.Group("/orders")
	orders.Use(auth)
	{
		orders.POST("", middleware.RoleRequired(models.RoleCustomer), h.PlaceOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/track", h.TrackOrder)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
		orders.PUT("/:id/cancel", h.CancelOrder)

		orders.GET("/user/:userId", h.UserOrders)
		orders.GET("/restaurant/:restaurantId", h.RestaurantOrders)
		orders.GET("/restaurant/:restaurantId/pending", h.PendingRestaurantOrders)
		orders.GET("/restaurant/:restaurantId/analytics", h.RestaurantAnalytics)
	}
}
