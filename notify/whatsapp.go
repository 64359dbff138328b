// Package notify formats messages for the external contact channel. The
// core never calls out itself: handlers return a deep link and a human
// verifies and credits the wallet on the other side.
package notify

import (
	"fmt"
	"net/url"
)

// TopUpLink builds a wa.me deep link with a pre-filled wallet top-up
// request for the given user.
func TopUpLink(phone, username, name string, amount float64) string {
	msg := fmt.Sprintf("Wallet top-up request\nAmount: INR %v\nUsername: %s\nName: %s", amount, username, name)
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(msg)
}
