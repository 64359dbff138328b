package handlers

import (
	"net/http"

	"pns-delivery-api/geo"
	"pns-delivery-api/ledger"
	"pns-delivery-api/middleware"
	"pns-delivery-api/models"
	"pns-delivery-api/notify"

	"github.com/gin-gonic/gin"
)

type PlaceOrderRequest struct {
	RestaurantID uint               `json:"restaurant_id" binding:"required"`
	Items        []ledger.ItemInput `json:"items" binding:"required,min=1,dive"`
	UserLocation struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"user_location" binding:"required"`
}

// PlaceOrder creates a new order for the logged-in user
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.CreateOrder(userID, req.RestaurantID, req.Items, req.UserLocation.Lat, req.UserLocation.Lon)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
		"otp":     order.OTP,
		"total":   order.TotalPrice(),
	})
}

// GetMyOrders returns the customer's orders, most recent first. The OTP is
// included while the order is still undelivered so the customer can read it
// out to the delivery partner.
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orders, err := h.Ledger.ListOrdersByUser(userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		entry := gin.H{"order": orders[i], "total": orders[i].TotalPrice()}
		if orders[i].Status != models.StatusDelivered {
			entry["otp"] = orders[i].OTP
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "orders": out})
}

// GetOrderDetail returns a single order with chat, history and the computed
// distance between the restaurant and the captured drop-off point
func (h *Handler) GetOrderDetail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Ledger.GetOrder(orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	var restaurant *models.Restaurant
	if order.Restaurant.ID != 0 {
		restaurant = &order.Restaurant
	}
	resp := gin.H{
		"order":       order,
		"total":       order.TotalPrice(),
		"distance_km": geo.OrderDistanceKm(order, restaurant),
	}
	if order.Status != models.StatusDelivered {
		resp["otp"] = order.OTP
	}
	c.JSON(http.StatusOK, resp)
}

type ChatRequest struct {
	Text string `json:"text" binding:"required"`
}

// PostOrderChat appends a message to the order's public chat. Registered for
// both the user and restaurant roles; ownership is checked per role. The
// sender name is the customer's display name or the restaurant's name.
func (h *Handler) PostOrderChat(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	order, err := h.Ledger.GetOrder(orderID)
	if err != nil {
		h.fail(c, err)
		return
	}

	senderName := user.Name
	switch user.Role {
	case models.RoleUser:
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
			return
		}
	case models.RoleRestaurant:
		if user.RestaurantID == nil || order.RestaurantID != *user.RestaurantID {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your restaurant"})
			return
		}
		var restaurant models.Restaurant
		if err := h.DB.First(&restaurant, *user.RestaurantID).Error; err == nil {
			senderName = restaurant.Name
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Only customers and restaurants may use the order chat"})
		return
	}

	msg, err := h.Ledger.AppendChatMessage(orderID, user.Role, senderName, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent", "chat_message": msg})
}

type TopUpRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RequestTopUp records an auditable wallet top-up request and returns the
// WhatsApp deep link the customer uses to complete it. The wallet is only
// credited once an admin approves the request.
func (h *Handler) RequestTopUp(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	link := notify.TopUpLink(h.Cfg.SupportPhone, user.Username, user.Name, req.Amount)
	topUp, err := h.Ledger.RequestTopUp(userID, req.Amount, link)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Top-up requested. A human verifies and credits your wallet.",
		"top_up":       topUp,
		"whatsapp_url": link,
	})
}
