package routes

import (
	"pns-delivery-api/handlers"
	"pns-delivery-api/middleware"
	"pns-delivery-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	secret := []byte(h.Cfg.JWTSecret)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id", h.GetRestaurant)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(secret))
	{
		auth.GET("/profile", h.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	user := r.Group("/api/user")
	user.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleUser))
	{
		user.POST("/orders", h.PlaceOrder)
		user.GET("/orders", h.GetMyOrders)
		user.GET("/orders/:id", h.GetOrderDetail)
		user.POST("/orders/:id/chat", h.PostOrderChat)
		user.POST("/wallet/topup", h.RequestTopUp)
	}

	// ── Restaurant routes ──────────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleRestaurant))
	{
		restaurant.GET("/orders", h.GetRestaurantOrders)
		restaurant.PUT("/orders/:id/status", h.UpdateOrderStatus)
		restaurant.POST("/orders/:id/chat", h.PostOrderChat)
	}

	// ── Delivery partner routes ────────────────────────────────────
	delivery := r.Group("/api/delivery")
	delivery.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.GET("/deliveries", h.GetMyDeliveries)
		delivery.POST("/orders/:id/complete", h.CompleteDelivery)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", h.AdminGetAllOrders)
		admin.PUT("/orders/:id/assign", h.AdminAssignPartner)
		admin.PUT("/orders/:id/status", h.AdminForceOrderStatus)
		admin.GET("/users", h.AdminGetAllUsers)
		admin.PUT("/users/:id/role", h.AdminChangeRole)
		admin.POST("/restaurants", h.AdminAddRestaurant)
		admin.DELETE("/restaurants/:id", h.AdminRemoveRestaurant)
		admin.GET("/topups", h.AdminListTopUps)
		admin.POST("/topups/:id/approve", h.AdminApproveTopUp)
		admin.GET("/modes", h.GetModes)
		admin.PUT("/modes", h.UpdateModes)
	}
}
