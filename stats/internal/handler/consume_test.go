package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/kafka"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx context.Context

	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func newClaim(messages ...*sarama.ConsumerMessage) *fakeClaim {
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(messages))}
	for _, m := range messages {
		claim.messages <- m
	}
	close(claim.messages)
	return claim
}

func eventMessage(offset int64, eventID string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{
		Offset:    offset,
		Topic:     kafka.LoanEventsTopic,
		Value:     []byte(`{"eventId":"` + eventID + `","type":"BORROW","userId":1,"bookId":2,"occurredAt":"2026-01-01T00:00:00Z"}`),
		Timestamp: time.Now(),
	}
}

// recorder fails for the listed event ids, the given number of times each.
type recorder struct {
	mu       sync.Mutex
	failures map[string]int
	recorded []string
}

func (r *recorder) record(_ context.Context, event kafka.LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures[event.EventID] > 0 {
		r.failures[event.EventID]--
		return errors.New("db is down")
	}
	r.recorded = append(r.recorded, event.EventID)
	return nil
}

func newTestConsumer(r *recorder) *Consumer {
	c := NewConsumer(r.record, zap.NewNop())
	c.backoff = time.Millisecond
	return c
}

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		failures     map[string]int
		messages     []*sarama.ConsumerMessage
		wantErr      bool
		wantRecorded []string
		wantMarked   []int64
	}{
		{
			name: "all stored",
			messages: []*sarama.ConsumerMessage{
				eventMessage(1, "e1"),
				eventMessage(2, "e2"),
			},
			wantRecorded: []string{"e1", "e2"},
			wantMarked:   []int64{1, 2},
		},
		{
			name: "undecodable message is skipped",
			messages: []*sarama.ConsumerMessage{
				{Offset: 1, Value: []byte(`not json`)},
				eventMessage(2, "e2"),
			},
			wantRecorded: []string{"e2"},
			wantMarked:   []int64{1, 2},
		},
		{
			name:     "transient failure is retried",
			failures: map[string]int{"e1": recordAttempts - 1},
			messages: []*sarama.ConsumerMessage{
				eventMessage(1, "e1"),
				eventMessage(2, "e2"),
			},
			wantRecorded: []string{"e1", "e2"},
			wantMarked:   []int64{1, 2},
		},
		{
			name:     "failure stops the claim before later messages",
			failures: map[string]int{"e1": recordAttempts},
			messages: []*sarama.ConsumerMessage{
				eventMessage(1, "e1"),
				eventMessage(2, "e2"),
			},
			wantErr: true,
		},
		{
			name:     "failure after a stored message keeps the earlier mark",
			failures: map[string]int{"e2": recordAttempts},
			messages: []*sarama.ConsumerMessage{
				eventMessage(1, "e1"),
				eventMessage(2, "e2"),
				eventMessage(3, "e3"),
			},
			wantErr:      true,
			wantRecorded: []string{"e1"},
			wantMarked:   []int64{1},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &recorder{failures: tt.failures}
			session := &fakeSession{ctx: context.Background()}
			consumer := newTestConsumer(r)

			require.NoError(t, consumer.Setup(session))
			err := consumer.ConsumeClaim(session, newClaim(tt.messages...))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, consumer.Cleanup(session))

			require.Equal(t, tt.wantRecorded, r.recorded)
			require.Equal(t, tt.wantMarked, session.marked)
		})
	}
}

func TestConsumer_ConsumeClaim_SessionDone(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}
	consumer := NewConsumer(func(context.Context, kafka.LoanEvent) error {
		t.Fatal("no message expected")
		return nil
	}, zap.NewNop())

	require.NoError(t, consumer.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}
