package ledger

import "errors"

// Error taxonomy for ledger operations. Every operation either fully applies
// or fully rejects with one of these, wrapped with context via %w.
var (
	// ErrNotFound is returned when a referenced order, user or restaurant
	// id does not exist. Indicates a stale reference on the caller's side.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed items, non-positive amounts and
	// empty chat text. Safe to surface as a user-facing retry prompt.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus is returned when a status value falls outside the
	// enumerated set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrOtpMismatch is returned when delivery completion is attempted
	// with the wrong code. State is unchanged; the partner may retry.
	ErrOtpMismatch = errors.New("otp mismatch")

	// ErrOrderDelivered rejects any mutation of an order that has already
	// reached its terminal Delivered state.
	ErrOrderDelivered = errors.New("order already delivered")

	// ErrPartnerUnavailable rejects assignment of a partner that is not a
	// delivery-role account or is marked inactive.
	ErrPartnerUnavailable = errors.New("delivery partner unavailable")

	// ErrNotAssigned rejects delivery completion by anyone other than the
	// partner currently holding the order.
	ErrNotAssigned = errors.New("caller is not the assigned delivery partner")
)
