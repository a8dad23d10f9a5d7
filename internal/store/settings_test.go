package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/origenapp/origen-core/internal/gateway"
	"github.com/origenapp/origen-core/internal/origen"
	"github.com/origenapp/origen-core/internal/syncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editedSettings(name string) origen.Settings {
	s := origen.DefaultSettings()
	s.AppName = name
	return s
}

func TestDebounceCoalescesEdits(t *testing.T) {
	s, gw := newTestStore(t)

	// Three edits inside one quiet window.
	s.UpdateSettings(editedSettings("first"))
	s.UpdateSettings(editedSettings("second"))
	s.UpdateSettings(editedSettings("third"))

	// Memory reflects the latest edit immediately.
	assert.Equal(t, "third", s.Settings().AppName)
	assert.Equal(t, SaveSaving, s.SaveStatus())

	require.Eventually(t, func() bool {
		n, _ := gw.SettingsSaves()
		return n > 0
	}, time.Second, 5*time.Millisecond)

	// Exactly one write, carrying the third value.
	n, last := gw.SettingsSaves()
	assert.Equal(t, 1, n)
	require.NotNil(t, last)
	assert.Equal(t, "third", last.AppName)
}

func TestSaveStatusSequence(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Equal(t, SaveIdle, s.SaveStatus())

	s.UpdateSettings(editedSettings("v1"))
	assert.Equal(t, SaveSaving, s.SaveStatus())

	require.Eventually(t, func() bool { return s.SaveStatus() == SaveSaved }, time.Second, 2*time.Millisecond)
	require.Eventually(t, func() bool { return s.SaveStatus() == SaveIdle }, time.Second, 2*time.Millisecond)
}

func TestSaveFailureHoldsErrorUntilNextEdit(t *testing.T) {
	s, gw := newTestStore(t)

	gw.FailNext(errors.New("backend down"))
	s.UpdateSettings(editedSettings("broken"))

	require.Eventually(t, func() bool { return s.SaveStatus() == SaveError }, time.Second, 2*time.Millisecond)

	// No automatic retry: status stays error past the debounce window.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, SaveError, s.SaveStatus())

	// The next edit restarts the cycle and persists.
	s.UpdateSettings(editedSettings("recovered"))
	assert.Equal(t, SaveSaving, s.SaveStatus())
	require.Eventually(t, func() bool { return s.SaveStatus() == SaveSaved }, time.Second, 2*time.Millisecond)

	_, last := gw.SettingsSaves()
	require.NotNil(t, last)
	assert.Equal(t, "recovered", last.AppName)
}

func TestEditDuringHoldGoesBackToSaving(t *testing.T) {
	s, _ := newTestStore(t)

	s.UpdateSettings(editedSettings("v1"))
	require.Eventually(t, func() bool { return s.SaveStatus() == SaveSaved }, time.Second, 2*time.Millisecond)

	// A newer edit during the hold window owns the machine; idle never
	// shows for the stale save.
	s.UpdateSettings(editedSettings("v2"))
	assert.Equal(t, SaveSaving, s.SaveStatus())
	require.Eventually(t, func() bool { return s.SaveStatus() == SaveSaved }, time.Second, 2*time.Millisecond)
	assert.Equal(t, "v2", s.Settings().AppName)
}

func TestSettingsSavePublishesSignal(t *testing.T) {
	gw := gateway.NewMemory()
	hub := syncx.NewHub()
	opts := Options{DebounceWindow: 20 * time.Millisecond, SavedHold: 40 * time.Millisecond}
	a := New(gw, hub.Join(), nil, opts)
	t.Cleanup(a.Close)
	b := New(gw, hub.Join(), nil, opts)
	t.Cleanup(b.Close)
	ctx := context.Background()
	a.Reload(ctx)
	b.Reload(ctx)

	a.UpdateSettings(editedSettings("shared name"))

	require.Eventually(t, func() bool {
		return b.Settings().AppName == "shared name"
	}, time.Second, 5*time.Millisecond)
}
