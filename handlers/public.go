package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodrunner-api/models"
	"foodrunner-api/statemachine"
)

const (
	serviceName = "FoodRunner API"
	version     = "1.0.0"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "healthy",
		"service": serviceName,
		"version": version,
	})
}

// Index lists the API entry points
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome to the " + serviceName,
		"version": version,
		"endpoints": gin.H{
			"restaurants":   "/api/restaurants",
			"menu":          "/api/menu",
			"auth":          "/api/auth",
			"orders":        "/api/orders",
			"state_machine": "/api/state-machine",
			"docs":          "/swagger/index.html",
		},
	})
}

// GetStateMachineInfo returns the full state machine for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	terminal := make([]models.OrderStatus, 0, 2)
	for _, s := range models.OrderStatuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        models.OrderStatuses,
		"terminal_states": terminal,
		"description":     "Food Delivery Order Lifecycle State Machine",
	})
}
