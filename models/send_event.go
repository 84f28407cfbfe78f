package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusQueued   = "queued"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusFailed   = "failed"
)

// SendEvent is one recorded notification attempt. Events are append-only
// and are written only after the provider has accepted the message.
// Repeat sends for the same (customer, checkout) pair accumulate; there
// is deliberately no uniqueness constraint on the pair.
type SendEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID string    `json:"customer_id" gorm:"index:idx_send_events_pair"`
	CheckoutID string    `json:"checkout_id" gorm:"index:idx_send_events_pair"`
	SentAt     time.Time `json:"sent_at"`
}

// SendAggregate is the per-(customer, checkout) rollup of the ledger.
type SendAggregate struct {
	CustomerID string    `json:"customer_id"`
	CheckoutID string    `json:"checkout_id"`
	Count      int64     `json:"count"`
	LastSentAt time.Time `json:"last_sent_at"`
}

// SendContext identifies which checkout a notification belongs to.
type SendContext struct {
	CustomerID string
	CheckoutID string
}

// DispatchResult is the outcome of a notify call. Provider rejections are
// reported here as Accepted=false rather than as an error, so a failed
// best-effort send never aborts the surrounding request.
type DispatchResult struct {
	Accepted    bool       `json:"accepted"`
	Status      string     `json:"status"`
	ProviderRef string     `json:"provider_ref,omitempty"`
	SentEvent   *SendEvent `json:"sent_event,omitempty"`
	ErrorDetail string     `json:"error_detail,omitempty"`
}
