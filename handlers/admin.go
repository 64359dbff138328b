package handlers

import (
	"net/http"

	"pns-delivery-api/geo"
	"pns-delivery-api/middleware"
	"pns-delivery-api/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns every order with dispatch detail: per-status
// summary, delivered revenue and the computed distance for each order
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders, err := h.Ledger.ListOrders()
	if err != nil {
		h.fail(c, err)
		return
	}

	var restaurants []models.Restaurant
	h.DB.Find(&restaurants)
	byID := make(map[uint]*models.Restaurant, len(restaurants))
	for i := range restaurants {
		byID[restaurants[i].ID] = &restaurants[i]
	}

	summary := map[string]int{}
	var totalRevenue float64
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.TotalPrice()
		}
		out = append(out, gin.H{
			"order":       o,
			"total":       o.TotalPrice(),
			"distance_km": geo.OrderDistanceKm(o, byID[o.RestaurantID]),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(out),
		"orders":        out,
	})
}

type AssignPartnerRequest struct {
	PartnerID uint `json:"partner_id" binding:"required"`
}

// AdminAssignPartner dispatches a delivery partner to an order
func (h *Handler) AdminAssignPartner(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AssignPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.AssignDeliveryPartner(orderID, req.PartnerID, middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Delivery partner assigned",
		"order_id":            order.ID,
		"delivery_partner_id": req.PartnerID,
		"status":              order.Status,
	})
}

type ForceStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason"`
}

// AdminForceOrderStatus lets an admin override any order state. The jump is
// always recorded in the status history.
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ForceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.GetOrder(orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	prev := order.Status

	updated, err := h.Ledger.UpdateStatus(orderID, req.Status, "admin", middleware.GetUserID(c), "[ADMIN OVERRIDE] "+req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        updated.ID,
		"previous_status": prev,
		"new_status":      updated.Status,
	})
}

// AdminGetAllUsers returns all users, optionally filtered by role
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := h.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

type ChangeRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// AdminChangeRole reassigns a user's role
func (h *Handler) AdminChangeRole(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRoles[req.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: user, restaurant, delivery, or admin"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	h.DB.Model(&user).Update("role", req.Role)

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user_id": user.ID, "role": req.Role})
}

type AddRestaurantRequest struct {
	Name    string   `json:"name" binding:"required"`
	Cuisine string   `json:"cuisine"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Rating  *float64 `json:"rating"`
}

// AdminAddRestaurant adds a restaurant; unset fields fall back to the
// dashboard defaults
func (h *Handler) AdminAddRestaurant(c *gin.Context) {
	var req AddRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant := models.Restaurant{
		Name:    req.Name,
		Cuisine: "Multi-cuisine",
		Lat:     28.6139,
		Lon:     77.209,
		Rating:  4.0,
	}
	if req.Cuisine != "" {
		restaurant.Cuisine = req.Cuisine
	}
	if req.Lat != nil {
		restaurant.Lat = *req.Lat
	}
	if req.Lon != nil {
		restaurant.Lon = *req.Lon
	}
	if req.Rating != nil {
		restaurant.Rating = *req.Rating
	}

	if err := h.DB.Create(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add restaurant"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant added", "restaurant": restaurant})
}

// AdminRemoveRestaurant deletes a restaurant. Orders keep their restaurant
// id; their computed distance becomes 0 once the id dangles.
func (h *Handler) AdminRemoveRestaurant(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	h.DB.Delete(&restaurant)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant removed", "restaurant_id": restaurantID})
}

// AdminListTopUps lists wallet top-up requests, optionally by status
func (h *Handler) AdminListTopUps(c *gin.Context) {
	topUps, err := h.Ledger.ListTopUps(models.TopUpStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(topUps), "top_ups": topUps})
}

// AdminApproveTopUp approves a pending top-up and credits the wallet
func (h *Handler) AdminApproveTopUp(c *gin.Context) {
	topUpID, ok := paramID(c, "id")
	if !ok {
		return
	}
	topUp, err := h.Ledger.ApproveTopUp(topUpID, middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Top-up approved and wallet credited", "top_up": topUp})
}

// GetModes returns the platform mode toggles
func (h *Handler) GetModes(c *gin.Context) {
	var modes models.PlatformModes
	if err := h.DB.First(&modes).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Platform modes not initialised"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modes": modes})
}

type UpdateModesRequest struct {
	Food     *bool `json:"food"`
	Grocery  *bool `json:"grocery"`
	Delivery *bool `json:"delivery"`
}

// UpdateModes flips the marketplace toggles (admin only)
func (h *Handler) UpdateModes(c *gin.Context) {
	var req UpdateModesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var modes models.PlatformModes
	if err := h.DB.First(&modes).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Platform modes not initialised"})
		return
	}
	if req.Food != nil {
		modes.Food = *req.Food
	}
	if req.Grocery != nil {
		modes.Grocery = *req.Grocery
	}
	if req.Delivery != nil {
		modes.Delivery = *req.Delivery
	}
	h.DB.Save(&modes)

	c.JSON(http.StatusOK, gin.H{"message": "Platform modes updated", "modes": modes})
}
