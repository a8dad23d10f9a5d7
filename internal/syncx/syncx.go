// Package syncx keeps sibling application instances convergent: after
// every successful mutation the store publishes one opaque "data changed"
// signal, and every subscribed instance answers with a full reload.
package syncx

import (
	"context"
	"encoding/json"
	"time"
)

// SignalDataUpdated is the only event type on the channel. The signal
// carries no description of what changed; receivers always reload
// everything.
const SignalDataUpdated = "DATA_UPDATED"

// DefaultChannel is the origin-scoped channel name shared by all
// instances of one deployment.
const DefaultChannel = "origen.app.sync"

// Notifier is the broadcast channel abstraction. Publish never returns
// an error: a dead transport means peers miss the signal until their next
// manual reload, nothing worse.
type Notifier interface {
	Publish(ctx context.Context)
	Subscribe(fn func())
	Close() error
}

// Envelope frames one signal on the wire. Producer carries the sender's
// instance id so a transport that echoes to the sender (redis pub/sub,
// unlike a browser BroadcastChannel) can be filtered back to
// peers-only delivery.
type Envelope struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Producer   string    `json:"producer"`
}

func (e Envelope) marshal() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return b
}

// Noop is the single-instance notifier: publishes go nowhere, nothing is
// ever delivered.
type Noop struct{}

func (Noop) Publish(ctx context.Context) {}
func (Noop) Subscribe(fn func())         {}
func (Noop) Close() error                { return nil }
