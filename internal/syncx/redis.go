package syncx

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisChannel broadcasts signals over redis pub/sub. Redis echoes
// published messages back to the publisher, so messages tagged with our
// own instance id are dropped on receipt to keep peers-only delivery.
type RedisChannel struct {
	rdb     *redis.Client
	channel string
	origin  string
	sub     *redis.PubSub

	mu       sync.Mutex
	handlers []func()

	done chan struct{}
}

// NewRedisClient builds a client for the sync channel.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// NewRedisChannel subscribes and starts the receive loop. It pings first:
// callers fall back to Noop when redis is unreachable, the channel is
// optional infrastructure and must never take the application down.
func NewRedisChannel(ctx context.Context, rdb *redis.Client, channel string) (*RedisChannel, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	c := &RedisChannel{
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
		sub:     rdb.Subscribe(ctx, channel),
		done:    make(chan struct{}),
	}
	go c.recv()
	return c, nil
}

func (c *RedisChannel) recv() {
	defer close(c.done)
	for msg := range c.sub.Channel() {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			slog.Warn("sync: bad envelope", "error", err)
			continue
		}
		if env.EventType != SignalDataUpdated || env.Producer == c.origin {
			continue
		}
		c.mu.Lock()
		handlers := make([]func(), len(c.handlers))
		copy(handlers, c.handlers)
		c.mu.Unlock()
		for _, fn := range handlers {
			fn()
		}
	}
}

func (c *RedisChannel) Publish(ctx context.Context) {
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  SignalDataUpdated,
		OccurredAt: time.Now().UTC(),
		Producer:   c.origin,
	}
	if err := c.rdb.Publish(ctx, c.channel, env.marshal()).Err(); err != nil {
		// Peers just miss this round; the next reload is authoritative.
		slog.Warn("sync: publish failed", "error", err)
	}
}

func (c *RedisChannel) Subscribe(fn func()) {
	c.mu.Lock()
	c.handlers = append(c.handlers, fn)
	c.mu.Unlock()
}

func (c *RedisChannel) Close() error {
	err := c.sub.Close()
	<-c.done
	return err
}
