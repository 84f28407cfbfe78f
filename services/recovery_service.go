package services

import (
	"context"

	"cart-recovery-service/correlation"
	"cart-recovery-service/dispatch"
	"cart-recovery-service/models"
	"cart-recovery-service/repository"
	"cart-recovery-service/source"

	"go.uber.org/zap"
)

// RecoveryService is the facade the route layer talks to: list abandoned
// checkouts joined with their send history, and dispatch recovery SMS.
type RecoveryService interface {
	ListCandidates(ctx context.Context, opts models.ListOptions) ([]models.CorrelatedCheckout, error)
	Notify(ctx context.Context, messageBody, recipientPhone string, sendCtx models.SendContext) (models.DispatchResult, error)
}

type recoveryService struct {
	checkoutSource source.CheckoutSource
	repo           repository.SendEventRepository
	dispatcher     *dispatch.Dispatcher
	logger         *zap.Logger
}

func NewRecoveryService(
	checkoutSource source.CheckoutSource,
	repo repository.SendEventRepository,
	dispatcher *dispatch.Dispatcher,
	logger *zap.Logger,
) RecoveryService {
	return &recoveryService{
		checkoutSource: checkoutSource,
		repo:           repo,
		dispatcher:     dispatcher,
		logger:         logger,
	}
}

// ListCandidates fetches candidates, rolls up the ledger and correlates
// the two. Source failures fail the request; a ledger failure degrades
// the listing to zero send history instead of failing it.
func (s *recoveryService) ListCandidates(ctx context.Context, opts models.ListOptions) ([]models.CorrelatedCheckout, error) {
	checkouts, err := s.checkoutSource.FetchCandidates(ctx, opts)
	if err != nil {
		return nil, err
	}

	aggregates, err := s.repo.AggregateByCustomerAndCheckout(ctx)
	if err != nil {
		s.logger.Warn("send ledger unavailable, listing without send history", zap.Error(err))
		aggregates = nil
	}

	return correlation.Correlate(checkouts, aggregates), nil
}

func (s *recoveryService) Notify(ctx context.Context, messageBody, recipientPhone string, sendCtx models.SendContext) (models.DispatchResult, error) {
	return s.dispatcher.Notify(ctx, messageBody, recipientPhone, sendCtx)
}
