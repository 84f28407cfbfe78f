package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cart-recovery-service/dispatch"
	"cart-recovery-service/models"
	"cart-recovery-service/sender"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// ---- mock sms sender ----

type mockSMSSender struct {
	result sender.SendResult
	err    error
	calls  int
	lastTo string
}

func (m *mockSMSSender) SendSMS(_ context.Context, to, _ string) (sender.SendResult, error) {
	m.calls++
	m.lastTo = to
	return m.result, m.err
}

// ---- mock ledger ----

type mockLedger struct {
	event       *models.SendEvent
	recordErr   error
	recordCalls int
	aggregates  []models.SendAggregate
	aggErr      error
}

func (m *mockLedger) RecordSend(_ context.Context, customerID, checkoutID string) (*models.SendEvent, error) {
	m.recordCalls++
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	if m.event == nil {
		m.event = &models.SendEvent{
			ID:         uuid.New(),
			CustomerID: customerID,
			CheckoutID: checkoutID,
			SentAt:     time.Now().UTC(),
		}
	}
	return m.event, nil
}

func (m *mockLedger) AggregateByCustomerAndCheckout(_ context.Context) ([]models.SendAggregate, error) {
	return m.aggregates, m.aggErr
}

// ---- helper ----

func newTestDispatcher(sms *mockSMSSender, ledger *mockLedger) *dispatch.Dispatcher {
	logger, _ := zap.NewDevelopment()
	return dispatch.NewDispatcher(sms, ledger, nil, logger)
}

// ---- tests ----

func TestNotify_MissingContextFailsBeforeAnyIO(t *testing.T) {
	sms := &mockSMSSender{}
	ledger := &mockLedger{}
	d := newTestDispatcher(sms, ledger)

	_, err := d.Notify(context.Background(), "Hi", "+15551234567", models.SendContext{CustomerID: "C1"})
	assert.ErrorIs(t, err, dispatch.ErrMissingContext)

	_, err = d.Notify(context.Background(), "Hi", "+15551234567", models.SendContext{CheckoutID: "K1"})
	assert.ErrorIs(t, err, dispatch.ErrMissingContext)

	assert.Equal(t, 0, sms.calls)
	assert.Equal(t, 0, ledger.recordCalls)
}

func TestNotify_ProviderAcceptanceRecordsExactlyOneEvent(t *testing.T) {
	sms := &mockSMSSender{result: sender.SendResult{SID: "SM123", Status: "queued"}}
	ledger := &mockLedger{}
	d := newTestDispatcher(sms, ledger)

	result, err := d.Notify(context.Background(), "Hi Jane", "+15551234567",
		models.SendContext{CustomerID: "C1", CheckoutID: "K1"})

	assert.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "queued", result.Status)
	assert.Equal(t, "SM123", result.ProviderRef)
	assert.Equal(t, 1, ledger.recordCalls)
	assert.NotNil(t, result.SentEvent)
	assert.Equal(t, "C1", result.SentEvent.CustomerID)
	assert.Equal(t, "K1", result.SentEvent.CheckoutID)
	assert.Equal(t, "+15551234567", sms.lastTo)
}

func TestNotify_ProviderRejectionReturnsValueWithoutLedgerWrite(t *testing.T) {
	sms := &mockSMSSender{err: errors.New("twilio error 400: invalid number")}
	ledger := &mockLedger{}
	d := newTestDispatcher(sms, ledger)

	result, err := d.Notify(context.Background(), "Hi", "+15551234567",
		models.SendContext{CustomerID: "C1", CheckoutID: "K1"})

	assert.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, models.StatusFailed, result.Status)
	assert.Contains(t, result.ErrorDetail, "invalid number")
	assert.Equal(t, 0, ledger.recordCalls)
}

func TestNotify_TerminalProviderStatusIsRejection(t *testing.T) {
	sms := &mockSMSSender{result: sender.SendResult{SID: "SM500", Status: "undelivered"}}
	ledger := &mockLedger{}
	d := newTestDispatcher(sms, ledger)

	result, err := d.Notify(context.Background(), "Hi", "+15551234567",
		models.SendContext{CustomerID: "C1", CheckoutID: "K1"})

	assert.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, 0, ledger.recordCalls)
}

func TestNotify_LedgerFailureAfterAcceptanceStaysAccepted(t *testing.T) {
	sms := &mockSMSSender{result: sender.SendResult{SID: "SM777", Status: "sent"}}
	ledger := &mockLedger{recordErr: errors.New("send ledger unavailable")}
	d := newTestDispatcher(sms, ledger)

	result, err := d.Notify(context.Background(), "Hi", "+15551234567",
		models.SendContext{CustomerID: "C1", CheckoutID: "K1"})

	assert.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "SM777", result.ProviderRef)
	assert.Nil(t, result.SentEvent)
	assert.Equal(t, 1, ledger.recordCalls)
}

func TestNotify_LedgerWriteSurvivesCancelledRequest(t *testing.T) {
	sms := &mockSMSSender{result: sender.SendResult{SID: "SM1", Status: "queued"}}
	ledger := &mockLedger{}
	d := newTestDispatcher(sms, ledger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.Notify(ctx, "Hi", "+15551234567",
		models.SendContext{CustomerID: "C1", CheckoutID: "K1"})

	assert.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, ledger.recordCalls)
}
