package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/metrics"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, kafka.LoanEvent) error { return nil }

// publish never fails the caller: the loan is already committed.
func (s *Service) publish(ctx context.Context, eventType kafka.EventType, tx model.Transaction, fine *decimal.Decimal) {
	event := kafka.LoanEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Username:      tx.Username,
		BookID:        tx.BookID,
		BookTitle:     tx.BookTitle,
		Fine:          fine,
		OccurredAt:    tx.TransactionDate,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		metrics.EventPublishFailuresTotal.Inc()
		s.log.Warn("publish loan event",
			zap.String("type", string(eventType)),
			zap.Int64("transactionID", tx.ID),
			zap.Error(err),
		)
	}
}
