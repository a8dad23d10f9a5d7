package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/origenapp/origen-core/internal/origen"
)

// UpdateSettings applies an edit to memory immediately and schedules the
// persisted write behind the debounce window. Each new edit cancels the
// pending timer and reschedules with its own value, so N edits inside one
// quiet burst produce exactly one gateway write carrying the Nth value.
//
// Status machine: any edit -> saving; timer fires and the write succeeds
// -> saved, then idle after the hold window unless a newer edit already
// took it back to saving; the write fails -> error until the next edit.
func (s *Store) UpdateSettings(next origen.Settings) {
	s.mu.Lock()
	s.settings = next.Clone()
	s.mu.Unlock()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.closed {
		return
	}
	s.status = SaveSaving
	s.saveGen++
	gen := s.saveGen
	s.pending = next.Clone()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, func() { s.flushSettings(gen) })
}

func (s *Store) flushSettings(gen int) {
	s.saveMu.Lock()
	if s.closed || gen != s.saveGen {
		// A newer edit rescheduled; its own timer will flush.
		s.saveMu.Unlock()
		return
	}
	value := s.pending.Clone()
	s.saveMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.gw.SaveSettings(ctx, value)

	s.saveMu.Lock()
	if s.closed || gen != s.saveGen {
		// The machine belongs to the newer edit now, whatever happened
		// to this write.
		s.saveMu.Unlock()
		return
	}
	if err != nil {
		slog.Warn("store: settings save failed", "error", err)
		s.status = SaveError
		s.saveMu.Unlock()
		return
	}
	s.status = SaveSaved
	if s.holdTimer != nil {
		s.holdTimer.Stop()
	}
	s.holdTimer = time.AfterFunc(s.hold, func() {
		s.saveMu.Lock()
		if !s.closed && gen == s.saveGen && s.status == SaveSaved {
			s.status = SaveIdle
		}
		s.saveMu.Unlock()
	})
	s.saveMu.Unlock()

	s.notifier.Publish(ctx)
}

// SaveStatus reports where the settings persistence machine currently is.
func (s *Store) SaveStatus() SaveStatus {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.status
}
