package models

import (
	"fmt"
	"time"
)

// Checkout is an abandoned checkout as reported by the commerce platform.
// It is read-only: sourced fresh on every listing request and never
// persisted or mutated locally. IDs are canonical decimal strings,
// normalized at the source adapter boundary.
type Checkout struct {
	ID                   string     `json:"id"`
	Customer             Customer   `json:"customer"`
	LineItems            []LineItem `json:"line_items"`
	TotalPrice           string     `json:"total_price"`
	CreatedAt            time.Time  `json:"created_at"`
	AbandonedCheckoutURL string     `json:"abandoned_checkout_url"`
}

type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// CorrelatedCheckout is a Checkout enriched with its send history.
// Recomputed on every listing request; never persisted.
type CorrelatedCheckout struct {
	Checkout
	SentCount  int64      `json:"sent_count"`
	LastSentAt *time.Time `json:"last_sent_at,omitempty"`
}

// ListOptions carries the recognized listing filters. Query is accepted
// and threaded through, but is currently a no-op downstream: free-text
// search over candidates is not implemented yet.
type ListOptions struct {
	Days  int
	Query string
}

// DefaultMessage composes the standard recovery SMS for a checkout,
// matching the message the admin UI sends.
func DefaultMessage(c Checkout) string {
	return fmt.Sprintf(
		"Hi %s %s, Something was left in your cart! Come on back and grab it before it's gone. %s",
		c.Customer.FirstName, c.Customer.LastName, c.AbandonedCheckoutURL,
	)
}
