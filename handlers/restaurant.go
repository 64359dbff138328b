package handlers

import (
	"net/http"

	"pns-delivery-api/middleware"
	"pns-delivery-api/models"
	"pns-delivery-api/statemachine"

	"github.com/gin-gonic/gin"
)

// myRestaurant resolves the restaurant linked to the logged-in account
func (h *Handler) myRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil || user.RestaurantID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant linked to your account"})
		return nil, false
	}
	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, *user.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Linked restaurant no longer exists"})
		return nil, false
	}
	return &restaurant, true
}

// GetRestaurantOrders returns all orders for the caller's restaurant with a
// per-status dashboard summary
func (h *Handler) GetRestaurantOrders(c *gin.Context) {
	restaurant, ok := h.myRestaurant(c)
	if !ok {
		return
	}

	orders, err := h.Ledger.ListOrdersByRestaurant(restaurant.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":    restaurant.Name,
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus handles the restaurant's state transitions
// (Created → Accepted → Preparing → OutForDelivery)
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	restaurant, ok := h.myRestaurant(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.GetOrder(orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if order.RestaurantID != restaurant.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your restaurant"})
		return
	}

	prev := order.Status
	updated, err := h.Ledger.UpdateStatus(orderID, req.Status, "restaurant", middleware.GetUserID(c), req.Note)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    prev,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(prev),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        updated.ID,
		"previous_status": string(prev),
		"current_status":  string(updated.Status),
	})
}
