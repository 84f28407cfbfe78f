package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cart-recovery-service/metrics"
	"cart-recovery-service/models"
	"cart-recovery-service/repository"
	"cart-recovery-service/sender"

	"go.uber.org/zap"
)

// ErrMissingContext is the local precondition failure for a notify call
// whose send context is not fully populated. Raised before any I/O.
var ErrMissingContext = errors.New("send context missing customer or checkout id")

// Dispatcher sends a recovery SMS through the provider and, only after
// the provider has acknowledged acceptance, records the send on the
// ledger. Provider failures are reported as a rejected DispatchResult,
// never as an error: a best-effort notification must not abort the
// surrounding request.
type Dispatcher struct {
	smsSender sender.SMSSender
	repo      repository.SendEventRepository
	metrics   *metrics.Client
	logger    *zap.Logger
}

func NewDispatcher(smsSender sender.SMSSender, repo repository.SendEventRepository, metricsClient *metrics.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		smsSender: smsSender,
		repo:      repo,
		metrics:   metricsClient,
		logger:    logger,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, messageBody, recipientPhone string, sendCtx models.SendContext) (models.DispatchResult, error) {
	if sendCtx.CustomerID == "" || sendCtx.CheckoutID == "" {
		return models.DispatchResult{}, ErrMissingContext
	}

	result, err := d.smsSender.SendSMS(ctx, recipientPhone, messageBody)
	if err == nil && terminalFailure(result.Status) {
		err = fmt.Errorf("provider returned terminal status %q for message %s", result.Status, result.SID)
	}
	if err != nil {
		d.logger.Warn("provider rejected message",
			zap.String("customer_id", sendCtx.CustomerID),
			zap.String("checkout_id", sendCtx.CheckoutID),
			zap.Error(err),
		)
		d.recordMetric(metrics.MetricNotificationsRejected)
		return models.DispatchResult{
			Accepted:    false,
			Status:      models.StatusFailed,
			ErrorDetail: err.Error(),
		}, nil
	}

	// The message is externally committed once the provider accepts it,
	// so the ledger write must survive caller cancellation.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	event, err := d.repo.RecordSend(recordCtx, sendCtx.CustomerID, sendCtx.CheckoutID)
	if err != nil {
		// Reconciliation gap: the message went out but the local record
		// did not persist. Surface operationally, not to the end user.
		d.logger.Error("send accepted by provider but ledger record failed",
			zap.String("customer_id", sendCtx.CustomerID),
			zap.String("checkout_id", sendCtx.CheckoutID),
			zap.String("provider_ref", result.SID),
			zap.Error(err),
		)
		d.recordMetric(metrics.MetricLedgerRecordFailures)
	}

	d.recordMetric(metrics.MetricNotificationsSent)
	d.logger.Info("recovery sms dispatched",
		zap.String("customer_id", sendCtx.CustomerID),
		zap.String("checkout_id", sendCtx.CheckoutID),
		zap.String("provider_ref", result.SID),
		zap.String("status", result.Status),
	)

	return models.DispatchResult{
		Accepted:    true,
		Status:      result.Status,
		ProviderRef: result.SID,
		SentEvent:   event,
	}, nil
}

func terminalFailure(status string) bool {
	return status == "failed" || status == "undelivered"
}

func (d *Dispatcher) recordMetric(name string) {
	if d.metrics == nil || !d.metrics.IsEnabled() {
		return
	}
	go func() {
		mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.metrics.RecordCount(mctx, name, map[string]string{"Service": "cart-recovery-service"})
	}()
}
