// Package ledger owns the order collection and every state-transition
// operation on it: creation, partner assignment, status updates, OTP-gated
// completion and chat appends. The HTTP layer is a pure consumer; role
// enforcement happens there, invariants are enforced here.
package ledger

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pns-delivery-api/models"
	"pns-delivery-api/statemachine"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

// newOTP draws a uniform random integer in [100000, 999999] and renders it
// as the 6-digit code the customer reads out to the delivery partner.
func newOTP() string {
	return fmt.Sprintf("%d", 100000+rand.Intn(900000))
}

// ItemInput is one requested line item on a new order
type ItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"qty" binding:"required,min=1"`
	Price    float64 `json:"price" binding:"min=0"`
}

// CreateOrder validates the references and items, generates a fresh OTP and
// inserts a new order with status Created and an empty chat log. The new id
// is greater than every previously issued id in this session.
func (l *Ledger) CreateOrder(userID, restaurantID uint, items []ItemInput, userLat, userLon float64) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidInput)
	}
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" || it.Quantity < 1 || it.Price < 0 {
			return nil, fmt.Errorf("%w: bad line item %q", ErrInvalidInput, it.Name)
		}
		orderItems = append(orderItems, models.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	var user models.User
	if err := l.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	var restaurant models.Restaurant
	if err := l.db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, restaurantID)
	}

	order := models.Order{
		UserID:       userID,
		RestaurantID: restaurantID,
		Status:       models.StatusCreated,
		UserLat:      &userLat,
		UserLon:      &userLon,
		OTP:          newOTP(),
		Items:        orderItems,
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusCreated,
			ChangedBy: userID,
			Note:      "Order placed",
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.CreateOrder: %w", err)
	}

	l.log.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Uint("restaurant_id", restaurantID),
		zap.Int("items", len(orderItems)),
	)
	return &order, nil
}

// AssignDeliveryPartner sets the partner and forces status to Assigned from
// any non-terminal state. The jump is recorded in the status history. The
// partner must hold the delivery role and be marked active.
func (l *Ledger) AssignDeliveryPartner(orderID, partnerID, actorID uint) (*models.Order, error) {
	order, err := l.get(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusDelivered {
		return nil, fmt.Errorf("%w: order %d", ErrOrderDelivered, orderID)
	}

	var partner models.User
	if err := l.db.First(&partner, partnerID).Error; err != nil {
		return nil, fmt.Errorf("%w: partner %d", ErrNotFound, partnerID)
	}
	if partner.Role != models.RoleDelivery || !partner.Active {
		return nil, fmt.Errorf("%w: user %d", ErrPartnerUnavailable, partnerID)
	}

	prev := order.Status
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Updates(map[string]interface{}{
			"delivery_partner_id": partnerID,
			"status":              models.StatusAssigned,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   models.StatusAssigned,
			ChangedBy:  actorID,
			Note:       fmt.Sprintf("Delivery partner %s assigned", partner.Name),
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.AssignDeliveryPartner: %w", err)
	}

	l.log.Info("delivery partner assigned",
		zap.Uint("order_id", orderID),
		zap.Uint("partner_id", partnerID),
		zap.String("from", string(prev)),
	)
	order.Status = models.StatusAssigned
	order.DeliveryPartnerID = &partnerID
	return order, nil
}

// UpdateStatus moves an order to a new status. Restaurant and delivery
// actors are validated against the transition table; the admin actor may
// force any enumerated status, forward or backward. Every change lands in
// the status history.
func (l *Ledger) UpdateStatus(orderID uint, to models.OrderStatus, actor string, actorID uint, note string) (*models.Order, error) {
	if !statemachine.IsValidStatus(to) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	order, err := l.get(orderID)
	if err != nil {
		return nil, err
	}
	if actor != "admin" {
		if err := statemachine.CanTransition(order.Status, to, actor); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, err.Error())
		}
	}

	prev := order.Status
	if note == "" {
		note = fmt.Sprintf("Status changed by %s", actor)
	}
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", to).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   to,
			ChangedBy:  actorID,
			Note:       note,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.UpdateStatus: %w", err)
	}

	l.log.Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("from", string(prev)),
		zap.String("to", string(to)),
		zap.String("actor", actor),
	)
	order.Status = to
	return order, nil
}

// CompleteDelivery verifies the submitted OTP against the code fixed at
// order creation and, on an exact match, marks the order Delivered. Only the
// assigned partner may complete. A mismatch leaves state unchanged and the
// partner may retry; once delivered, every further attempt is rejected.
func (l *Ledger) CompleteDelivery(orderID, partnerID uint, submittedOTP string) (*models.Order, error) {
	order, err := l.get(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusDelivered {
		return nil, fmt.Errorf("%w: order %d", ErrOrderDelivered, orderID)
	}
	if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != partnerID {
		return nil, fmt.Errorf("%w: order %d", ErrNotAssigned, orderID)
	}
	if submittedOTP != order.OTP {
		l.log.Warn("otp mismatch on delivery completion",
			zap.Uint("order_id", orderID),
			zap.Uint("partner_id", partnerID),
		)
		return nil, fmt.Errorf("%w: order %d", ErrOtpMismatch, orderID)
	}

	prev := order.Status
	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", models.StatusDelivered).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   models.StatusDelivered,
			ChangedBy:  partnerID,
			Note:       "Delivery verified via OTP",
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.CompleteDelivery: %w", err)
	}

	l.log.Info("delivery completed",
		zap.Uint("order_id", orderID),
		zap.Uint("partner_id", partnerID),
	)
	order.Status = models.StatusDelivered
	return order, nil
}

// AppendChatMessage appends one message to the order's public chat with a
// server-assigned timestamp. The log is append-only; prior messages are
// never touched.
func (l *Ledger) AppendChatMessage(orderID uint, senderRole models.UserRole, senderName, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty chat message", ErrInvalidInput)
	}
	if _, err := l.get(orderID); err != nil {
		return nil, err
	}

	msg := models.ChatMessage{
		OrderID:    orderID,
		SenderRole: senderRole,
		SenderName: senderName,
		Text:       text,
		SentAt:     time.Now(),
	}
	if err := l.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("ledger.AppendChatMessage: %w", err)
	}
	return &msg, nil
}

// get fetches a bare order row, translating gorm's not-found error
func (l *Ledger) get(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := l.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("ledger.get: %w", err)
	}
	return &order, nil
}

// GetOrder returns a single order with items, chat and history loaded
func (l *Ledger) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := l.db.
		Preload("Items").
		Preload("Chat", func(db *gorm.DB) *gorm.DB { return db.Order("chat_messages.id asc") }).
		Preload("StatusHistory").
		Preload("Restaurant").
		Preload("DeliveryPartner").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("ledger.GetOrder: %w", err)
	}
	return &order, nil
}

// ListOrders returns every order, most recent first
func (l *Ledger) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	err := l.db.Preload("Items").Preload("Chat").
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("ledger.ListOrders: %w", err)
	}
	return orders, nil
}

// ListOrdersByUser returns the customer's orders, most recent first
func (l *Ledger) ListOrdersByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := l.db.Preload("Items").
		Preload("Chat", func(db *gorm.DB) *gorm.DB { return db.Order("chat_messages.id asc") }).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("ledger.ListOrdersByUser: %w", err)
	}
	return orders, nil
}

// ListOrdersByRestaurant returns a restaurant's orders, most recent first
func (l *Ledger) ListOrdersByRestaurant(restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := l.db.Preload("Items").
		Preload("Chat", func(db *gorm.DB) *gorm.DB { return db.Order("chat_messages.id asc") }).
		Where("restaurant_id = ?", restaurantID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("ledger.ListOrdersByRestaurant: %w", err)
	}
	return orders, nil
}

// ListActiveDeliveries returns the partner's undelivered assignments
func (l *Ledger) ListActiveDeliveries(partnerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := l.db.Preload("Items").Preload("Restaurant").
		Where("delivery_partner_id = ? AND status <> ?", partnerID, models.StatusDelivered).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("ledger.ListActiveDeliveries: %w", err)
	}
	return orders, nil
}
