package statemachine

import (
	"errors"

	"pns-delivery-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "restaurant", "delivery", "admin"
}

// validTransitions is the authoritative state machine definition. The order
// lifecycle is linear: Created → Accepted → Preparing → OutForDelivery →
// Assigned → Delivered. Admins may additionally force any status through the
// override path in the ledger, which bypasses this table but is always
// recorded in the status history.
var validTransitions = []Transition{
	// Restaurant works the order up to the point it leaves the kitchen
	{From: models.StatusCreated, To: models.StatusAccepted, Actor: "restaurant"},
	{From: models.StatusAccepted, To: models.StatusPreparing, Actor: "restaurant"},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: "restaurant"},
	// Admin dispatches a delivery partner
	{From: models.StatusOutForDelivery, To: models.StatusAssigned, Actor: "admin"},
	// Delivery partner completes with the customer's OTP
	{From: models.StatusAssigned, To: models.StatusDelivered, Actor: "delivery"},
}

// AllStatuses enumerates the closed status set, in lifecycle order
var AllStatuses = []models.OrderStatus{
	models.StatusCreated,
	models.StatusAccepted,
	models.StatusPreparing,
	models.StatusOutForDelivery,
	models.StatusAssigned,
	models.StatusDelivered,
}

// IsValidStatus reports whether s belongs to the enumerated status set
func IsValidStatus(s models.OrderStatus) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
