package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cart-recovery-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStoreUnavailable wraps any failure of the underlying ledger store.
var ErrStoreUnavailable = errors.New("send ledger unavailable")

// SendEventRepository is the durable send ledger. Events are append-only:
// nothing here updates or deletes rows, and repeat sends for the same
// (customer, checkout) pair are allowed to accumulate.
type SendEventRepository interface {
	RecordSend(ctx context.Context, customerID, checkoutID string) (*models.SendEvent, error)
	AggregateByCustomerAndCheckout(ctx context.Context) ([]models.SendAggregate, error)
}

type sendEventRepository struct {
	db *gorm.DB
}

func NewSendEventRepository(db *gorm.DB) SendEventRepository {
	return &sendEventRepository{db: db}
}

func (r *sendEventRepository) RecordSend(ctx context.Context, customerID, checkoutID string) (*models.SendEvent, error) {
	event := &models.SendEvent{
		ID:         uuid.New(),
		CustomerID: customerID,
		CheckoutID: checkoutID,
		SentAt:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return event, nil
}

// AggregateByCustomerAndCheckout rolls up the whole ledger in a single
// GROUP BY statement, so the result is consistent with one snapshot of
// the table.
func (r *sendEventRepository) AggregateByCustomerAndCheckout(ctx context.Context) ([]models.SendAggregate, error) {
	var aggregates []models.SendAggregate
	err := r.db.WithContext(ctx).
		Model(&models.SendEvent{}).
		Select("customer_id, checkout_id, COUNT(*) AS count, MAX(sent_at) AS last_sent_at").
		Group("customer_id, checkout_id").
		Scan(&aggregates).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return aggregates, nil
}
