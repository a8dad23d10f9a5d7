// syncrelay bridges the two sync transports: signals published on the
// redis channel by same-host instances are forwarded onto the kafka bus
// for remote clients, and vice versa. Deployments using a single
// transport do not need it.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/origenapp/origen-core/internal/config"
	"github.com/origenapp/origen-core/internal/logging"
	"github.com/origenapp/origen-core/internal/syncx"
	kafkago "github.com/segmentio/kafka-go"
)

// seen remembers recently forwarded event ids so a signal bounced back by
// the other transport is not forwarded again.
type seen struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func newSeen() *seen { return &seen{ids: map[string]time.Time{}} }

func (s *seen) mark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, t := range s.ids {
		if now.Sub(t) > time.Minute {
			delete(s.ids, k)
		}
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = now
	return true
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	_, cleanup, err := logging.New(cfg.ServiceName+"-syncrelay", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := syncx.NewRedisClient(cfg.RedisAddr)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.SyncChannel,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	defer writer.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.ServiceName + "-syncrelay",
		Topic:          cfg.SyncChannel,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	dedup := newSeen()

	// redis -> kafka
	sub := rdb.Subscribe(ctx, cfg.SyncChannel)
	defer sub.Close()
	go func() {
		for msg := range sub.Channel() {
			var env syncx.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("relay: bad envelope from redis: %v", err)
				continue
			}
			if env.EventType != syncx.SignalDataUpdated || !dedup.mark(env.EventID) {
				continue
			}
			if err := writer.WriteMessages(ctx, kafkago.Message{
				Key:   []byte(env.Producer),
				Value: []byte(msg.Payload),
				Time:  time.Now(),
			}); err != nil {
				log.Printf("relay: kafka write: %v", err)
			}
		}
	}()

	// kafka -> redis
	go func() {
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				select {
				case <-ctx.Done():
				default:
					log.Printf("relay: kafka read: %v", err)
				}
				return
			}
			var env syncx.Envelope
			if err := json.Unmarshal(m.Value, &env); err != nil {
				log.Printf("relay: bad envelope from kafka: %v", err)
				continue
			}
			if env.EventType != syncx.SignalDataUpdated || !dedup.mark(env.EventID) {
				continue
			}
			if err := rdb.Publish(ctx, cfg.SyncChannel, m.Value).Err(); err != nil {
				log.Printf("relay: redis publish: %v", err)
			}
		}
	}()

	log.Printf("syncrelay bridging channel %q between redis and kafka", cfg.SyncChannel)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down relay...")
	cancel()
	time.Sleep(200 * time.Millisecond)
}
