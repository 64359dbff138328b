package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleRestaurant UserRole = "restaurant"
	RoleDelivery   UserRole = "delivery"
	RoleAdmin      UserRole = "admin"
)

// ValidRoles is the closed set accepted by registration and admin role changes
var ValidRoles = map[UserRole]bool{
	RoleUser:       true,
	RoleRestaurant: true,
	RoleDelivery:   true,
	RoleAdmin:      true,
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null"`
	Name         string   `json:"name" gorm:"not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;default:'user'"`

	// Role-specific attributes: Wallet for the user role, RestaurantID links a
	// restaurant-role account to its restaurant, Active marks a delivery
	// partner as available for assignment.
	Wallet       float64   `json:"wallet" gorm:"default:0"`
	RestaurantID *uint     `json:"restaurant_id"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TopUpStatus tracks the lifecycle of a wallet top-up request
type TopUpStatus string

const (
	TopUpPending  TopUpStatus = "PENDING"
	TopUpApproved TopUpStatus = "APPROVED"
)

// WalletTopUp is the audit record behind every wallet credit. The request is
// handed off to an external contact channel (WhatsApp) and an admin approves
// it; the balance is never mutated outside this flow.
type WalletTopUp struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"not null"`
	User        User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Amount      float64     `json:"amount" gorm:"not null"`
	Reference   string      `json:"reference"` // external handoff reference
	Status      TopUpStatus `json:"status" gorm:"not null;default:'PENDING'"`
	ApprovedBy  *uint       `json:"approved_by"`
	RequestedAt time.Time   `json:"requested_at"`
	ResolvedAt  *time.Time  `json:"resolved_at"`
}
