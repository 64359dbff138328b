package models

import "time"

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusCreated        OrderStatus = "Created"
	StatusAccepted       OrderStatus = "Accepted"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "OutForDelivery"
	StatusAssigned       OrderStatus = "Assigned"
	StatusDelivered      OrderStatus = "Delivered"
)

type Order struct {
	ID                uint        `json:"id" gorm:"primaryKey"`
	UserID            uint        `json:"user_id" gorm:"not null"`
	User              User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID      uint        `json:"restaurant_id" gorm:"not null"`
	Restaurant        Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	DeliveryPartnerID *uint       `json:"delivery_partner_id"`
	DeliveryPartner   *User       `json:"delivery_partner,omitempty" gorm:"foreignKey:DeliveryPartnerID"`
	Status            OrderStatus `json:"status" gorm:"not null;default:'Created'"`

	// Customer coordinate captured at order time, not the user's live
	// location; the two may differ.
	UserLat *float64 `json:"user_lat"`
	UserLon *float64 `json:"user_lon"`

	// Fixed at creation, never regenerated. Hidden from list payloads;
	// the customer view exposes it explicitly.
	OTP string `json:"-" gorm:"not null"`

	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Chat          []ChatMessage        `json:"chat,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// TotalPrice sums quantity times unit price over the line items
func (o *Order) TotalPrice() float64 {
	var total float64
	for _, it := range o.Items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}

type OrderItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"order_id" gorm:"not null"`
	Name     string  `json:"name" gorm:"not null"`
	Quantity int     `json:"qty" gorm:"not null"`
	Price    float64 `json:"price" gorm:"not null"` // unit price snapshot
}

// ChatMessage is one entry in an order's append-only public chat. IDs come
// from a monotonic counter, not from the log position, so they stay unique
// even if entries are ever merged from elsewhere.
type ChatMessage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"not null"`
	SenderRole UserRole  `json:"sender_role" gorm:"not null"`
	SenderName string    `json:"sender_name" gorm:"not null"`
	Text       string    `json:"text" gorm:"not null"`
	SentAt     time.Time `json:"ts"`
}

// OrderStatusHistory tracks every status change, including admin overrides
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
