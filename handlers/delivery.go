package handlers

import (
	"net/http"

	"pns-delivery-api/geo"
	"pns-delivery-api/middleware"
	"pns-delivery-api/models"

	"github.com/gin-gonic/gin"
)

// GetMyDeliveries returns the partner's active (undelivered) assignments
// with the derived distance and payout for each trip
func (h *Handler) GetMyDeliveries(c *gin.Context) {
	partnerID := middleware.GetUserID(c)
	orders, err := h.Ledger.ListActiveDeliveries(partnerID)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		var restaurant *models.Restaurant
		if orders[i].Restaurant.ID != 0 {
			restaurant = &orders[i].Restaurant
		}
		dist := geo.OrderDistanceKm(&orders[i], restaurant)
		out = append(out, gin.H{
			"order":       orders[i],
			"distance_km": dist,
			"payout":      geo.Payout(dist),
		})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "deliveries": out})
}

type CompleteDeliveryRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// CompleteDelivery verifies the customer's OTP and marks the order Delivered
func (h *Handler) CompleteDelivery(c *gin.Context) {
	partnerID := middleware.GetUserID(c)
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CompleteDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Ledger.CompleteDelivery(orderID, partnerID, req.OTP)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery verified via OTP. Good job!",
		"order_id": order.ID,
		"status":   order.Status,
	})
}
