package handler

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/kafka"
)

const (
	recordAttempts = 3
	recordBackoff  = 500 * time.Millisecond
)

type recordEvent func(ctx context.Context, event kafka.LoanEvent) error

type Consumer struct {
	record  recordEvent
	backoff time.Duration
	log     *zap.Logger
}

func NewConsumer(record recordEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		record:  record,
		backoff: recordBackoff,
		log:     log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks undecodable messages so they are skipped. When an event
// cannot be stored the claim ends without marking it: offsets only move
// forward, so the next session resumes from that message.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			event, err := kafka.DecodeLoanEvent(message.Value)
			if err != nil {
				consumer.log.Error("decode", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}

			if err = consumer.recordWithRetry(session.Context(), event); err != nil {
				consumer.log.Error("consumer.record",
					zap.Error(err),
					zap.String("eventID", event.EventID),
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset),
				)
				return errors.Wrapf(err, "record event at offset %d", message.Offset)
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) recordWithRetry(ctx context.Context, event kafka.LoanEvent) error {
	var err error
	for attempt := 1; attempt <= recordAttempts; attempt++ {
		if err = consumer.record(ctx, event); err == nil {
			return nil
		}
		if attempt == recordAttempts {
			break
		}
		consumer.log.Warn("record retry", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(consumer.backoff * time.Duration(attempt)):
		}
	}
	return err
}
