package config

import (
	"fmt"
	"time"

	"pns-delivery-api/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads the demo dataset: 10 Delhi restaurants, one user per role and a
// single in-flight order already assigned to the delivery partner. Skipped
// when users already exist, so restarts of a shared DSN stay idempotent.
func Seed(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("config.Seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	restaurants := []models.Restaurant{
		{Name: "Delhi Spice House", Cuisine: "North Indian", Lat: 28.6139, Lon: 77.209, Rating: 4.4},
		{Name: "Khan Chacha Grill", Cuisine: "Mughlai", Lat: 28.6024, Lon: 77.2263, Rating: 4.2},
		{Name: "Saravana Bhavan CP", Cuisine: "South Indian", Lat: 28.6329, Lon: 77.2195, Rating: 4.3},
		{Name: "Wok in the Clouds", Cuisine: "Asian", Lat: 28.6562, Lon: 77.241, Rating: 4.1},
		{Name: "Biryani Blues", Cuisine: "Biryani", Lat: 28.6448, Lon: 77.2167, Rating: 4.0},
		{Name: "SodaBottleOpenerWala", Cuisine: "Parsi", Lat: 28.6289, Lon: 77.2196, Rating: 4.2},
		{Name: "Haldirams Chandni Chowk", Cuisine: "Veg Multi-cuisine", Lat: 28.655, Lon: 77.2303, Rating: 4.1},
		{Name: "Andhra Bhavan Canteen", Cuisine: "Andhra", Lat: 28.6146, Lon: 77.2066, Rating: 4.5},
		{Name: "Karims Jama Masjid", Cuisine: "Mughlai", Lat: 28.6509, Lon: 77.2336, Rating: 4.3},
		{Name: "Sagar Ratna GK", Cuisine: "South Indian", Lat: 28.5535, Lon: 77.2409, Rating: 4.0},
	}
	if err := db.Create(&restaurants).Error; err != nil {
		return fmt.Errorf("config.Seed restaurants: %w", err)
	}

	spiceHouseID := restaurants[0].ID
	users := []models.User{
		{Username: "priya", Name: "Priya Narang", Role: models.RoleUser, Wallet: 250, PasswordHash: mustHash("priya123")},
		{Username: "arjun", Name: "Arjun Mehra", Role: models.RoleRestaurant, RestaurantID: &spiceHouseID, PasswordHash: mustHash("arjun123")},
		{Username: "ravi", Name: "Ravi Singh", Role: models.RoleDelivery, Active: true, PasswordHash: mustHash("ravi123")},
		{Username: "admin", Name: "PN Admin", Role: models.RoleAdmin, PasswordHash: mustHash("admin123")},
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("config.Seed users: %w", err)
	}

	priya, ravi := users[0], users[2]
	userLat, userLon := 28.617, 77.2095
	order := models.Order{
		UserID:            priya.ID,
		RestaurantID:      spiceHouseID,
		DeliveryPartnerID: &ravi.ID,
		Status:            models.StatusAssigned,
		UserLat:           &userLat,
		UserLon:           &userLon,
		OTP:               "549213",
		Items: []models.OrderItem{
			{Name: "Paneer Butter Masala", Quantity: 1, Price: 240},
			{Name: "Butter Naan", Quantity: 2, Price: 50},
		},
		Chat: []models.ChatMessage{
			{SenderRole: models.RoleRestaurant, SenderName: "Delhi Spice House", Text: "Order accepted, preparing now!", SentAt: time.Now().Add(-10 * time.Minute)},
			{SenderRole: models.RoleUser, SenderName: "Priya", Text: "Please make it less spicy.", SentAt: time.Now().Add(-9 * time.Minute)},
		},
		StatusHistory: []models.OrderStatusHistory{
			{ToStatus: models.StatusAssigned, ChangedBy: users[3].ID, Note: "Seeded in-flight order"},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		return fmt.Errorf("config.Seed order: %w", err)
	}

	if err := db.Create(&models.PlatformModes{Food: true, Grocery: false, Delivery: true}).Error; err != nil {
		return fmt.Errorf("config.Seed modes: %w", err)
	}

	log.Info("seed data loaded",
		zap.Int("restaurants", len(restaurants)),
		zap.Int("users", len(users)),
		zap.Uint("order_id", order.ID),
	)
	return nil
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic("config.Seed: bcrypt: " + err.Error())
	}
	return string(hash)
}
