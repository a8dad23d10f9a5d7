package syncx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaBusCloseBeforeStartReturns(t *testing.T) {
	bus := NewKafkaBus([]string{"127.0.0.1:9092"}, "sync-test", "svc")

	done := make(chan error, 1)
	go func() { done <- bus.Close() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked without a running flush loop")
	}
}

func TestKafkaBusPublishAfterCloseIsDropped(t *testing.T) {
	bus := NewKafkaBus([]string{"127.0.0.1:9092"}, "sync-test", "svc")
	require.NoError(t, bus.Close())

	// Must not panic on the closed inbox.
	bus.Publish(context.Background())

	// Repeated Close is a no-op.
	assert.NoError(t, bus.Close())
}
