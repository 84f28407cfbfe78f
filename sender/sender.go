package sender

import (
	"context"
	"time"
)

// SendResult carries the provider's acknowledgement of an accepted
// message: its tracking sid and the delivery status it reported.
type SendResult struct {
	SID    string
	Status string
	SentAt time.Time
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, msg string) (SendResult, error)
}
