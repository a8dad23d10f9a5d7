package syncx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaBus carries the sync signal over a kafka topic for server-hosted
// deployments where instances do not share a browsing context. Each
// instance consumes with its own group id so every instance sees every
// signal (fan-out, not work sharing).
type KafkaBus struct {
	w      *kafka.Writer
	r      *kafka.Reader
	origin string

	inbox   chan kafka.Message
	closeCh chan struct{}
	recvCh  chan struct{}

	mu       sync.Mutex
	handlers []func()
	started  bool
	closed   bool
}

func NewKafkaBus(brokers []string, topic, groupPrefix string) *KafkaBus {
	origin := uuid.NewString()
	return &KafkaBus{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        fmt.Sprintf("%s-%s", groupPrefix, origin[:8]),
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		}),
		origin:  origin,
		inbox:   make(chan kafka.Message, 64),
		closeCh: make(chan struct{}),
		recvCh:  make(chan struct{}),
	}
}

// Start launches the producer flush loop and the consumer loop. ctx
// cancellation stops both; Close flushes whatever is still queued.
func (b *KafkaBus) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	go func() {
		defer close(b.closeCh)
		for m := range b.inbox {
			if err := b.w.WriteMessages(context.Background(), m); err != nil {
				slog.Warn("sync: kafka write failed", "error", err)
			}
		}
		_ = b.w.Close()
	}()

	go func() {
		defer close(b.recvCh)
		for {
			m, err := b.r.ReadMessage(ctx)
			if err != nil {
				select {
				case <-ctx.Done():
				default:
					slog.Warn("sync: kafka read failed", "error", err)
				}
				return
			}
			var env Envelope
			if err := json.Unmarshal(m.Value, &env); err != nil {
				slog.Warn("sync: bad envelope", "error", err)
				continue
			}
			if env.EventType != SignalDataUpdated || env.Producer == b.origin {
				continue
			}
			b.mu.Lock()
			handlers := make([]func(), len(b.handlers))
			copy(handlers, b.handlers)
			b.mu.Unlock()
			for _, fn := range handlers {
				fn()
			}
		}
	}()
}

func (b *KafkaBus) Publish(ctx context.Context) {
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  SignalDataUpdated,
		OccurredAt: time.Now().UTC(),
		Producer:   b.origin,
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.inbox <- kafka.Message{Key: []byte(b.origin), Value: env.marshal(), Time: time.Now()}:
	default:
		// Inbox full means the broker is badly behind; dropping a signal
		// is safe, any later reload picks up the same state.
		slog.Warn("sync: kafka inbox full, signal dropped")
	}
}

func (b *KafkaBus) Subscribe(fn func()) {
	b.mu.Lock()
	b.handlers = append(b.handlers, fn)
	b.mu.Unlock()
}

// Close shuts the inbox so the flush loop drains remaining signals, then
// closes the reader. Safe before Start and under concurrent Publish:
// publishes after Close are dropped, not sent on a closed channel.
func (b *KafkaBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	started := b.started
	close(b.inbox)
	b.mu.Unlock()

	if !started {
		_ = b.w.Close()
		return b.r.Close()
	}
	<-b.closeCh
	err := b.r.Close()
	<-b.recvCh
	return err
}
