package ledger_test

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"pns-delivery-api/ledger"
	"pns-delivery-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixtures created for every test: one customer, one restaurant, one active
// delivery partner
type fixtures struct {
	customer   models.User
	restaurant models.Restaurant
	partner    models.User
}

func newTestLedger(t *testing.T) (*ledger.Ledger, *gorm.DB, fixtures) {
	t.Helper()

	// One private in-memory database per test, shared across the pool
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatMessage{},
		&models.OrderStatusHistory{},
		&models.WalletTopUp{},
	))

	fx := fixtures{
		customer:   models.User{Username: "priya", Name: "Priya Narang", Role: models.RoleUser, Wallet: 250, PasswordHash: "x"},
		restaurant: models.Restaurant{Name: "Delhi Spice House", Cuisine: "North Indian", Lat: 28.6139, Lon: 77.209, Rating: 4.4},
		partner:    models.User{Username: "ravi", Name: "Ravi Singh", Role: models.RoleDelivery, Active: true, PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&fx.customer).Error)
	require.NoError(t, db.Create(&fx.restaurant).Error)
	require.NoError(t, db.Create(&fx.partner).Error)

	return ledger.New(db, zaptest.NewLogger(t)), db, fx
}

func sampleItems() []ledger.ItemInput {
	return []ledger.ItemInput{
		{Name: "Paneer Butter Masala", Quantity: 1, Price: 240},
		{Name: "Butter Naan", Quantity: 2, Price: 50},
	}
}

func TestCreateOrder(t *testing.T) {
	l, _, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCreated, order.Status)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), order.OTP)
	assert.Nil(t, order.DeliveryPartnerID)
	assert.Equal(t, 340.0, order.TotalPrice())

	full, err := l.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Empty(t, full.Chat)
	assert.Len(t, full.Items, 2)

	// Ids keep growing within the session
	second, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)
	assert.Greater(t, second.ID, order.ID)
}

func TestCreateOrderValidation(t *testing.T) {
	l, _, fx := newTestLedger(t)

	_, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, nil, 28.617, 77.2095)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, err = l.CreateOrder(fx.customer.ID, fx.restaurant.ID,
		[]ledger.ItemInput{{Name: "Veg Thali", Quantity: 0, Price: 220}}, 28.617, 77.2095)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, err = l.CreateOrder(fx.customer.ID, fx.restaurant.ID,
		[]ledger.ItemInput{{Name: "Veg Thali", Quantity: 1, Price: -1}}, 28.617, 77.2095)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, err = l.CreateOrder(9999, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = l.CreateOrder(fx.customer.ID, 9999, sampleItems(), 28.617, 77.2095)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	l, _, fx := newTestLedger(t)

	first, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)
	second, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)

	orders, err := l.ListOrdersByUser(fx.customer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestAssignDeliveryPartner(t *testing.T) {
	l, db, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)

	// Forces Assigned regardless of current status
	updated, err := l.AssignDeliveryPartner(order.ID, fx.partner.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, updated.Status)
	require.NotNil(t, updated.DeliveryPartnerID)
	assert.Equal(t, fx.partner.ID, *updated.DeliveryPartnerID)

	_, err = l.AssignDeliveryPartner(9999, fx.partner.ID, 1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = l.AssignDeliveryPartner(order.ID, 9999, 1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	// Customer-role accounts can never be dispatched
	_, err = l.AssignDeliveryPartner(order.ID, fx.customer.ID, 1)
	assert.ErrorIs(t, err, ledger.ErrPartnerUnavailable)

	// Neither can inactive partners
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", fx.partner.ID).Update("active", false).Error)
	_, err = l.AssignDeliveryPartner(order.ID, fx.partner.ID, 1)
	assert.ErrorIs(t, err, ledger.ErrPartnerUnavailable)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	l, _, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)

	updated, err := l.UpdateStatus(order.ID, models.StatusAccepted, "restaurant", 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	// Restaurant may not jump ahead or move backward
	_, err = l.UpdateStatus(order.ID, models.StatusDelivered, "restaurant", 1, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus)
	_, err = l.UpdateStatus(order.ID, models.StatusCreated, "restaurant", 1, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus)

	// Unknown statuses are rejected outright
	_, err = l.UpdateStatus(order.ID, "Cancelled", "admin", 1, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus)

	// Admin override may force any enumerated status, including backward
	updated, err = l.UpdateStatus(order.ID, models.StatusCreated, "admin", 1, "rollback")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, updated.Status)

	_, err = l.UpdateStatus(9999, models.StatusAccepted, "admin", 1, "")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestUpdateStatusRecordsHistory(t *testing.T) {
	l, db, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)
	_, err = l.UpdateStatus(order.ID, models.StatusAccepted, "restaurant", 42, "on it")
	require.NoError(t, err)

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("id asc").Find(&history).Error)
	require.Len(t, history, 2) // creation + acceptance
	assert.Equal(t, models.StatusAccepted, history[1].ToStatus)
	assert.Equal(t, models.StatusCreated, history[1].FromStatus)
	assert.Equal(t, uint(42), history[1].ChangedBy)
}

func TestCompleteDelivery(t *testing.T) {
	l, _, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)
	_, err = l.AssignDeliveryPartner(order.ID, fx.partner.ID, 1)
	require.NoError(t, err)

	// Wrong partner
	_, err = l.CompleteDelivery(order.ID, fx.customer.ID, order.OTP)
	assert.ErrorIs(t, err, ledger.ErrNotAssigned)

	// Wrong code leaves state unchanged, retry allowed
	_, err = l.CompleteDelivery(order.ID, fx.partner.ID, "000000")
	assert.ErrorIs(t, err, ledger.ErrOtpMismatch)
	current, err := l.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, current.Status)

	// Correct code delivers exactly once
	delivered, err := l.CompleteDelivery(order.ID, fx.partner.ID, order.OTP)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, delivered.Status)

	// Any later attempt is rejected, right or wrong code
	_, err = l.CompleteDelivery(order.ID, fx.partner.ID, order.OTP)
	assert.ErrorIs(t, err, ledger.ErrOrderDelivered)
	_, err = l.CompleteDelivery(order.ID, fx.partner.ID, "000000")
	assert.ErrorIs(t, err, ledger.ErrOrderDelivered)
}

func TestAppendChatMessage(t *testing.T) {
	l, _, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)

	first, err := l.AppendChatMessage(order.ID, models.RoleRestaurant, "Delhi Spice House", "Order accepted, preparing now!")
	require.NoError(t, err)
	second, err := l.AppendChatMessage(order.ID, models.RoleUser, "Priya", "Please make it less spicy.")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	full, err := l.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, full.Chat, 2)
	assert.Equal(t, "Order accepted, preparing now!", full.Chat[0].Text)
	assert.Equal(t, models.RoleRestaurant, full.Chat[0].SenderRole)
	assert.Equal(t, "Please make it less spicy.", full.Chat[1].Text)

	_, err = l.AppendChatMessage(order.ID, models.RoleUser, "Priya", "   ")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
	_, err = l.AppendChatMessage(9999, models.RoleUser, "Priya", "hello")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// Full lifecycle: order placed, partner dispatched, OTP verified
func TestOrderLifecycleScenario(t *testing.T) {
	l, _, fx := newTestLedger(t)

	order, err := l.CreateOrder(fx.customer.ID, fx.restaurant.ID, sampleItems(), 28.617, 77.2095)
	require.NoError(t, err)
	_, err = l.AppendChatMessage(order.ID, models.RoleUser, "Priya", "Please make it less spicy.")
	require.NoError(t, err)

	_, err = l.AssignDeliveryPartner(order.ID, fx.partner.ID, 1)
	require.NoError(t, err)

	_, err = l.CompleteDelivery(order.ID, fx.partner.ID, order.OTP)
	require.NoError(t, err)

	final, err := l.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, final.Status)
	require.NotNil(t, final.DeliveryPartnerID)
	assert.Equal(t, fx.partner.ID, *final.DeliveryPartnerID)
	require.Len(t, final.Chat, 1)
	assert.Equal(t, "Please make it less spicy.", final.Chat[0].Text)
	assert.Equal(t, 340.0, final.TotalPrice())
	assert.Equal(t, order.OTP, final.OTP) // never regenerated
}
