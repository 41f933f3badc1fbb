package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Publisher struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	topic    string
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		cb:       circuit_breaker.New(10, 30*time.Second, 0.5, 3),
		topic:    topic,
	}
}

// Publish keys events by book so that the events of one book stay ordered.
func (p *Publisher) Publish(_ context.Context, event LoanEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.BookID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

func DecodeLoanEvent(data []byte) (LoanEvent, error) {
	var event LoanEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return LoanEvent{}, errors.Wrap(err, "unmarshal event")
	}
	return event, nil
}
