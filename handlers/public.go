package handlers

import (
	"net/http"

	"pns-delivery-api/models"
	"pns-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns all restaurants (public)
func (h *Handler) ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := h.DB.Order("id asc")

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine LIKE ?", "%"+cuisine+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant
func (h *Handler) GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetStateMachineInfo returns the full order state machine for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"statuses":        statemachine.AllStatuses,
		"terminal_states": []models.OrderStatus{models.StatusDelivered},
		"note":            "Admins may force any listed status; the jump is recorded in the order's status history.",
	})
}
